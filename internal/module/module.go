// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package module defines the Module, the unit of buildable work, together with
// the closed set of module kinds and the per-run status values.
//
// A Module is created by the registry from one declaration, lives for the
// duration of a single build invocation and is never mutated once the
// dependency graph has been assembled. Per-run state such as Status is kept
// by the scheduler, not on the Module itself.
package module

import (
	"path"
	"slices"
)

// DefaultTags is applied to modules that do not declare any tags.
var DefaultTags = []string{"optional"}

// Module is a named buildable unit with a kind and a dependency set.
type Module struct {
	// Name is unique across the registry.
	Name string
	// Kind governs the output path shape and the artifact class.
	Kind Kind
	// Type is the declaring block type, e.g. "cc_library" or "module".
	Type string
	// DeclaringPath is the slash-separated path of the declaring file,
	// relative to the source root.
	DeclaringPath string
	// Dependencies is sorted and never contains Name.
	Dependencies []string
	// Tags are free-form labels copied into the module index.
	Tags []string
}

// New returns a Module with normalized dependencies and default tags.
func New(name string, kind Kind, typ, declaringPath string, deps, tags []string) *Module {
	m := &Module{
		Name:          name,
		Kind:          kind,
		Type:          typ,
		DeclaringPath: declaringPath,
		Dependencies:  normalize(deps),
		Tags:          slices.Clone(tags),
	}
	if len(m.Tags) == 0 {
		m.Tags = slices.Clone(DefaultTags)
	}
	return m
}

// DeclaringDir returns the directory of the declaring file, "." for the root.
func (m *Module) DeclaringDir() string {
	return path.Dir(m.DeclaringPath)
}

// DependsOn reports whether name is a direct dependency of m.
func (m *Module) DependsOn(name string) bool {
	_, found := slices.BinarySearch(m.Dependencies, name)
	return found
}

func normalize(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return slices.Compact(out)
}
