/*******************************************************************************
* Copyright (C) 2026 the Eclipse BaSyx Authors and Fraunhofer IESE
*
* Permission is hereby granted, free of charge, to any person obtaining
* a copy of this software and associated documentation files (the
* "Software"), to deal in the Software without restriction, including
* without limitation the rights to use, copy, modify, merge, publish,
* distribute, sublicense, and/or sell copies of the Software, and to
* permit persons to whom the Software is furnished to do so, subject to
* the following conditions:
*
* The above copyright notice and this permission notice shall be
* included in all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
* EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
* MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
* NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
* LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
* OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
* WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*
* SPDX-License-Identifier: MIT
******************************************************************************/

// Package aasref converts AAS model references into the HTTP paths of an AAS
// service and into a lossless string form that can travel inside a data address.
//
// A reference is an ordered chain of typed keys. The first key names an
// identifiable (shell, submodel or concept description), every following key
// names a submodel element nested below it:
//
//	[Submodel "x", SubmodelElementCollection "y", Property "z"]
//	-> submodels/eA==/submodel-elements/y.z
package aasref

import (
	"fmt"
	"strings"
)

// Key is one segment of a reference chain. Value is nil only for list
// children that are identified by their position.
type Key struct {
	Type  KeyType `json:"type"`
	Value *string `json:"value,omitempty"`
}

// Reference is an ordered chain of keys identifying one element of an AAS environment.
type Reference struct {
	Type ReferenceType `json:"type"`
	Keys []Key         `json:"keys"`
}

// NewKey creates a key with a value.
func NewKey(keyType KeyType, value string) Key {
	return Key{Type: keyType, Value: &value}
}

// NewIndexKey creates a key for the element at position index of a SubmodelElementList.
func NewIndexKey(keyType KeyType, index int) Key {
	return NewKey(keyType, fmt.Sprintf("%d", index))
}

// NewModelReference creates a model reference from the given keys.
func NewModelReference(keys ...Key) *Reference {
	return &Reference{Type: ReferenceTypeModel, Keys: append([]Key(nil), keys...)}
}

// ShellReference references the asset administration shell with the given id.
func ShellReference(id string) *Reference {
	return NewModelReference(NewKey(KeyTypeAssetAdministrationShell, id))
}

// SubmodelReference references the submodel with the given id.
func SubmodelReference(id string) *Reference {
	return NewModelReference(NewKey(KeyTypeSubmodel, id))
}

// ConceptDescriptionReference references the concept description with the given id.
func ConceptDescriptionReference(id string) *Reference {
	return NewModelReference(NewKey(KeyTypeConceptDescription, id))
}

// ElementReference returns a copy of parent extended by one key. parent is not modified.
func ElementReference(parent *Reference, keyType KeyType, value string) *Reference {
	return parent.With(NewKey(keyType, value))
}

// With returns a copy of r with key appended.
func (r *Reference) With(key Key) *Reference {
	out := r.Clone()
	out.Keys = append(out.Keys, key)
	return out
}

// Clone returns a deep copy of r. Cloning nil yields an empty model reference.
func (r *Reference) Clone() *Reference {
	if r == nil {
		return &Reference{Type: ReferenceTypeModel}
	}
	keys := make([]Key, len(r.Keys), len(r.Keys)+1)
	for i, k := range r.Keys {
		keys[i] = Key{Type: k.Type}
		if k.Value != nil {
			v := *k.Value
			keys[i].Value = &v
		}
	}
	return &Reference{Type: r.Type, Keys: keys}
}

// Root returns the first key and whether there is one.
func (r *Reference) Root() (Key, bool) {
	if r == nil || len(r.Keys) == 0 {
		return Key{}, false
	}
	return r.Keys[0], true
}

// Last returns the last key and whether there is one.
func (r *Reference) Last() (Key, bool) {
	if r == nil || len(r.Keys) == 0 {
		return Key{}, false
	}
	return r.Keys[len(r.Keys)-1], true
}

// IsEmpty reports whether r holds no keys.
func (r *Reference) IsEmpty() bool {
	return r == nil || len(r.Keys) == 0
}

// Equal reports structural equality of reference type and the key type/value sequence.
func Equal(a, b *Reference) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() && b.IsEmpty()
	}
	if a.Type != b.Type || len(a.Keys) != len(b.Keys) {
		return false
	}
	for i := range a.Keys {
		ka, kb := a.Keys[i], b.Keys[i]
		if ka.Type != kb.Type {
			return false
		}
		if (ka.Value == nil) != (kb.Value == nil) {
			return false
		}
		if ka.Value != nil && *ka.Value != *kb.Value {
			return false
		}
	}
	return true
}

func (k Key) String() string {
	if k.Value == nil {
		return fmt.Sprintf("(%s, <nil>)", k.Type)
	}
	return fmt.Sprintf("(%s, %s)", k.Type, *k.Value)
}

func (r *Reference) String() string {
	if r == nil {
		return "<nil reference>"
	}
	parts := make([]string, len(r.Keys))
	for i, k := range r.Keys {
		parts[i] = k.String()
	}
	return fmt.Sprintf("%s[%s]", r.Type, strings.Join(parts, ", "))
}
