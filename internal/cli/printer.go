package cli

import (
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/specialistvlad/burstbuild/internal/app"
	"github.com/specialistvlad/burstbuild/internal/module"
	"github.com/specialistvlad/burstbuild/internal/progress"
)

// Printer renders progress events and build summaries for a terminal. It is
// a progress.Sink.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	step   *color.Color
	ok     *color.Color
	fail   *color.Color
	warn   *color.Color
	header *color.Color
}

// NewPrinter creates a Printer writing to out. Colors are disabled when
// noColor is set.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:    out,
		step:   color.New(color.FgCyan),
		ok:     color.New(color.FgGreen, color.Bold),
		fail:   color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow),
		header: color.New(color.FgBlue, color.Bold),
	}
	for _, c := range []*color.Color{p.step, p.ok, p.fail, p.warn, p.header} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

// Publish prints one line per completed phase and per failed or skipped
// module.
func (p *Printer) Publish(e progress.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Type {
	case progress.EventRunStarted:
		p.header.Fprintf(p.out, "#### building %d phases ####\n", e.Total)
	case progress.EventPhaseFinished:
		fmt.Fprintf(p.out, "%s %s %s %s\n",
			p.step.Sprintf("[%3d%% %d/%d]", e.Percent(), e.Step, e.Total),
			label(e.Dir, e.Module), e.ModuleType, e.Phase)
	case progress.EventModuleFinished:
		switch e.Status {
		case module.Failed.String():
			p.fail.Fprintf(p.out, "FAILED: %s\n", label(e.Dir, e.Module))
		case module.Skipped.String():
			p.warn.Fprintf(p.out, "SKIPPED: %s\n", label(e.Dir, e.Module))
		}
	}
}

// Summary prints the final result of a build.
func (p *Printer) Summary(report *app.BuildReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, nf := range report.Unresolved {
		p.fail.Fprintf(p.out, "error: %s\n", nf.Error())
	}
	if report.Result == nil {
		return
	}

	if report.Succeeded() {
		p.ok.Fprintf(p.out, "#### build completed successfully (%d modules) ####\n", len(report.Done()))
		return
	}

	p.list("succeeded", report.Done(), p.ok)
	for _, name := range report.Failed() {
		p.fail.Fprintf(p.out, "failed: %s\n", report.Failures[name].Error())
	}
	for _, name := range report.Skipped() {
		p.warn.Fprintf(p.out, "skipped: %s (dependency %s did not build)\n", name, report.SkipCauses[name])
	}
	p.list("cancelled", report.CancelledModules(), p.warn)

	if report.Cancelled {
		p.fail.Fprintln(p.out, "#### build cancelled ####")
		return
	}
	p.fail.Fprintln(p.out, "#### failed to build some targets ####")
}

func (p *Printer) list(title string, names []string, c *color.Color) {
	if len(names) == 0 {
		return
	}
	c.Fprintf(p.out, "%s (%d): %s\n", title, len(names), strings.Join(names, " "))
}

// label renders a module as //dir:name.
func label(dir, name string) string {
	if dir == "" || dir == "." {
		return "//:" + name
	}
	return "//" + path.Clean(dir) + ":" + name
}
