package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/burstbuild/internal/config"
	"github.com/specialistvlad/burstbuild/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL declaration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses src and translates every top-level block into a declaration.
// The first error diagnostic is reported as a *config.ParseError.
func (l *Loader) Load(ctx context.Context, filename string, src []byte) ([]*config.Declaration, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file", filename)

	// A fresh parser per file: hclparse caches files by name and the registry
	// never parses the same file twice.
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, toParseError(filename, "invalid HCL syntax", diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &config.ParseError{Path: filename, Msg: "unexpected HCL body type"}
	}

	if attr := firstAttribute(body); attr != nil {
		diags := hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unexpected top-level attribute",
			Detail:   fmt.Sprintf("Attribute %q must be set inside a module block.", attr.Name),
			Subject:  attr.SrcRange.Ptr(),
		}}
		return nil, toParseError(filename, "invalid declaration file", diags)
	}

	decls := make([]*config.Declaration, 0, len(body.Blocks))
	for _, block := range body.Blocks {
		decl, blockDiags := translateBlock(block, filename)
		if blockDiags.HasErrors() {
			return nil, toParseError(filename, fmt.Sprintf("invalid %q block", block.Type), blockDiags)
		}
		decls = append(decls, decl)
	}

	logger.Debug("HCL loading complete.", "file", filename, "declarations", len(decls))
	return decls, nil
}

// firstAttribute returns the earliest top-level attribute of body, or nil.
func firstAttribute(body *hclsyntax.Body) *hclsyntax.Attribute {
	var first *hclsyntax.Attribute
	for _, attr := range body.Attributes {
		if first == nil || attr.SrcRange.Start.Byte < first.SrcRange.Start.Byte {
			first = attr
		}
	}
	return first
}

// toParseError converts the first error diagnostic into a *config.ParseError
// that points at the offending line.
func toParseError(filename, msg string, diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		perr := &config.ParseError{Path: filename, Msg: msg, Err: diagError{d}}
		if d.Subject != nil {
			perr.Line = d.Subject.Start.Line
		}
		return perr
	}
	return &config.ParseError{Path: filename, Msg: msg, Err: diags}
}

// diagError renders a single diagnostic without repeating the file position,
// which the enclosing ParseError already carries.
type diagError struct {
	d *hcl.Diagnostic
}

func (e diagError) Error() string {
	if e.d.Detail == "" {
		return e.d.Summary
	}
	return e.d.Summary + ": " + e.d.Detail
}
