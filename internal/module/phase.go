package module

// Phase is one step of building a module. Phases run sequentially, in the
// order listed in Phases.
type Phase string

const (
	PhaseStub    Phase = "stub"
	PhaseHeader  Phase = "header"
	PhaseCompile Phase = "compile"
	PhaseLink    Phase = "link"
)

// Phases is the fixed per-module phase sequence.
var Phases = []Phase{PhaseStub, PhaseHeader, PhaseCompile, PhaseLink}

// PhaseInstall names the artifact write that follows the last phase. It is
// reported in build failures but is not part of Phases.
const PhaseInstall Phase = "install"
