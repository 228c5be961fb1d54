// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. Declaration files are tokenized and parsed with the HCL native
// syntax parser; every top-level block becomes one config.Declaration.
//
// Only literal values are accepted for the attributes the orchestrator
// understands (name, kind, tags and the dependency lists). All other
// attributes and nested blocks are left unevaluated.
package hcl
