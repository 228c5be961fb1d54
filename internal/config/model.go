package config

import (
	"fmt"

	"github.com/specialistvlad/burstbuild/internal/module"
)

// Declaration is the format-agnostic representation of one module block.
type Declaration struct {
	Name string
	Kind module.Kind
	// Type is the block type as written, e.g. "cc_library".
	Type string
	// Path is the root-relative, slash-separated path of the declaring file.
	Path string
	// Line is the 1-based line of the declaration, 0 when unknown.
	Line int
	Deps []string
	Tags []string
}

// Module converts the declaration into a registry module.
func (d *Declaration) Module() *module.Module {
	return module.New(d.Name, d.Kind, d.Type, d.Path, d.Deps, d.Tags)
}

// Location formats the declaration's source position.
func (d *Declaration) Location() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d", d.Path, d.Line)
	}
	return d.Path
}

// ParseError reports a malformed declaration. Path always names the file
// that contains it.
type ParseError struct {
	Path string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("parse error in %s: %s: %v", loc, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %s", loc, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
