package hcl

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/burstbuild/internal/config"
	"github.com/specialistvlad/burstbuild/internal/module"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// genericBlockType is the block type that carries its kind explicitly.
const genericBlockType = "module"

// dependencyAttributes are the attributes whose values are module name
// references. Their union forms the declared dependency set.
var dependencyAttributes = []string{"deps", "shared_libs", "static_libs", "header_libs", "libs"}

// translateBlock converts one top-level block into a declaration.
func translateBlock(block *hclsyntax.Block, filename string) (*config.Declaration, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	defRange := block.DefRange()

	decl := &config.Declaration{
		Type: block.Type,
		Path: filename,
		Line: defRange.Start.Line,
	}

	name, nameDiags := blockName(block)
	diags = append(diags, nameDiags...)
	decl.Name = name

	kind, kindDiags := blockKind(block)
	diags = append(diags, kindDiags...)
	decl.Kind = kind

	for _, attrName := range dependencyAttributes {
		attr, ok := block.Body.Attributes[attrName]
		if !ok {
			continue
		}
		deps, depDiags := stringListAttr(attr)
		diags = append(diags, depDiags...)
		decl.Deps = append(decl.Deps, deps...)
	}
	for _, dep := range decl.Deps {
		if dep == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Empty dependency name",
				Detail:   "Dependency lists must contain module names.",
				Subject:  defRange.Ptr(),
			})
			break
		}
	}
	if name != "" && slices.Contains(decl.Deps, name) {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Self dependency",
			Detail:   fmt.Sprintf("Module %q lists itself as a dependency.", name),
			Subject:  defRange.Ptr(),
		})
	}

	if attr, ok := block.Body.Attributes["tags"]; ok {
		tags, tagDiags := stringListAttr(attr)
		diags = append(diags, tagDiags...)
		decl.Tags = tags
	}

	return decl, diags
}

// blockName returns the module name from the single block label or the
// "name" attribute.
func blockName(block *hclsyntax.Block) (string, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	defRange := block.DefRange()

	if len(block.Labels) > 1 {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Too many block labels",
			Detail:   fmt.Sprintf("A %q block takes at most one label, the module name.", block.Type),
			Subject:  defRange.Ptr(),
		})
	}

	var label string
	if len(block.Labels) == 1 {
		label = block.Labels[0]
	}

	var attrName string
	if attr, ok := block.Body.Attributes["name"]; ok {
		attrName, diags = stringAttr(attr)
		if diags.HasErrors() {
			return "", diags
		}
	}

	switch {
	case label != "" && attrName != "" && label != attrName:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Conflicting module name",
			Detail:   fmt.Sprintf("The block label %q and the name attribute %q disagree.", label, attrName),
			Subject:  defRange.Ptr(),
		})
		return "", diags
	case label != "":
		return label, diags
	case attrName != "":
		return attrName, diags
	default:
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing module name",
			Detail:   fmt.Sprintf("A %q block needs a name label or a name attribute.", block.Type),
			Subject:  defRange.Ptr(),
		})
	}
}

// blockKind returns the explicit kind attribute or derives the kind from the
// block type. The generic "module" block must declare its kind.
func blockKind(block *hclsyntax.Block) (module.Kind, hcl.Diagnostics) {
	attr, ok := block.Body.Attributes["kind"]
	if !ok {
		if block.Type == genericBlockType {
			r := block.DefRange()
			return "", hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Missing module kind",
				Detail:   fmt.Sprintf("A %q block must set kind to one of %v.", genericBlockType, module.Kinds),
				Subject:  r.Ptr(),
			}}
		}
		return module.KindForType(block.Type), nil
	}

	raw, diags := stringAttr(attr)
	if diags.HasErrors() {
		return "", diags
	}
	kind, err := module.ParseKind(raw)
	if err != nil {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid module kind",
			Detail:   fmt.Sprintf("%s; expected one of %v.", err, module.Kinds),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}
	return kind, diags
}

// literalValue evaluates an attribute without any variables or functions,
// which restricts it to literal values.
func literalValue(attr *hclsyntax.Attribute) (cty.Value, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Non-literal value",
			Detail:   fmt.Sprintf("The %q attribute must be a literal value.", attr.Name),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	return val, nil
}

func stringAttr(attr *hclsyntax.Attribute) (string, hcl.Diagnostics) {
	val, diags := literalValue(attr)
	if diags.HasErrors() {
		return "", diags
	}

	val, err := convert.Convert(val, cty.String)
	if err != nil || val.IsNull() {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid attribute type",
			Detail:   fmt.Sprintf("The %q attribute must be a string.", attr.Name),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	return val.AsString(), nil
}

func stringListAttr(attr *hclsyntax.Attribute) ([]string, hcl.Diagnostics) {
	val, diags := literalValue(attr)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}

	invalid := hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid attribute type",
		Detail:   fmt.Sprintf("The %q attribute must be a list of strings.", attr.Name),
		Subject:  attr.Expr.Range().Ptr(),
	}}

	if !val.Type().IsTupleType() && !val.Type().IsListType() && !val.Type().IsSetType() {
		return nil, invalid
	}
	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, invalid
	}

	var out []string
	if err := gocty.FromCtyValue(listVal, &out); err != nil {
		return nil, invalid
	}
	return out, nil
}
