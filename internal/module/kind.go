// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the closed set of module kinds and the two projections
// derived from a kind: the artifact class recorded in the module index and the
// install location family used by the artifact writer.
package module

import (
	"fmt"
	"strings"
)

// Kind is a closed category tag for modules.
type Kind string

const (
	KindNativeBinary   Kind = "native-binary"
	KindNativeLibrary  Kind = "native-library"
	KindManagedLibrary Kind = "managed-library"
	KindApplication    Kind = "application"
	KindGeneric        Kind = "generic"
)

// Kinds lists every valid kind.
var Kinds = []Kind{KindNativeBinary, KindNativeLibrary, KindManagedLibrary, KindApplication, KindGeneric}

// ParseKind validates s against the closed set of kinds.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown module kind %q", s)
}

// KindForType derives a kind from a declaration block type, following the
// Soong module type families.
func KindForType(typ string) Kind {
	switch {
	case strings.HasPrefix(typ, "cc_binary"):
		return KindNativeBinary
	case strings.HasPrefix(typ, "cc_"):
		return KindNativeLibrary
	case strings.HasPrefix(typ, "android_app"):
		return KindApplication
	case strings.HasPrefix(typ, "java_"), strings.HasPrefix(typ, "android_"):
		return KindManagedLibrary
	default:
		return KindGeneric
	}
}

// IsNative reports whether the kind produces native code.
func (k Kind) IsNative() bool {
	return k == KindNativeBinary || k == KindNativeLibrary
}

// IsManaged reports whether the kind is installed into the framework tree.
func (k Kind) IsManaged() bool {
	return k == KindManagedLibrary || k == KindApplication
}

// Class is the artifact class recorded in the module index.
type Class string

const (
	ClassExecutables     Class = "EXECUTABLES"
	ClassSharedLibraries Class = "SHARED_LIBRARIES"
	ClassJavaLibraries   Class = "JAVA_LIBRARIES"
	ClassApps            Class = "APPS"
	ClassUnknown         Class = "UNKNOWN"
)

// Class derives the index class from the kind.
func (k Kind) Class() Class {
	switch k {
	case KindNativeBinary:
		return ClassExecutables
	case KindNativeLibrary:
		return ClassSharedLibraries
	case KindManagedLibrary:
		return ClassJavaLibraries
	case KindApplication:
		return ClassApps
	default:
		return ClassUnknown
	}
}
