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

package aasref

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
)

const submodelElementsSegment = "/submodel-elements/"

// ErrUnresolvableListIndex is returned by ToPath for a list child that carries no value.
// The position of such an element is not part of the reference, so no path can be built.
var ErrUnresolvableListIndex = errors.New("AASREF-TOPATH-NOLISTINDEX list element without index value")

// MalformedReferenceError is returned when a reference does not pass Validate.
type MalformedReferenceError struct {
	Reference *Reference
	Problems  []string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("AASREF-TOPATH-MALFORMED malformed reference %s: %s",
		e.Reference, strings.Join(e.Problems, "; "))
}

// IsMalformedReference reports whether err is or wraps a *MalformedReferenceError.
func IsMalformedReference(err error) bool {
	var target *MalformedReferenceError
	return errors.As(err, &target)
}

// Validate returns every problem found in ref. An empty result means ref can be
// turned into a path. Validate never panics.
func Validate(ref *Reference) []string {
	if ref == nil {
		return []string{"reference is nil"}
	}

	var problems []string

	switch ref.Type {
	case ReferenceTypeModel:
	case ReferenceTypeExternal:
		problems = append(problems, "external references point outside the environment and cannot be resolved")
	case "":
		problems = append(problems, "reference type is missing")
	default:
		problems = append(problems, fmt.Sprintf("unknown reference type %q", ref.Type))
	}

	if len(ref.Keys) == 0 {
		return append(problems, "reference has no keys")
	}

	root := ref.Keys[0]
	switch {
	case root.Type == "":
		problems = append(problems, "key 0 has no type")
	case !root.Type.IsIdentifiable():
		problems = append(problems, fmt.Sprintf("key 0 has type %s, expected one of AssetAdministrationShell, Submodel, ConceptDescription", root.Type))
	}
	if root.Value == nil {
		problems = append(problems, "key 0 has no value")
	}

	for i := 1; i < len(ref.Keys); i++ {
		key := ref.Keys[i]
		switch {
		case key.Type == "":
			problems = append(problems, fmt.Sprintf("key %d has no type", i))
		case key.Type.IsIdentifiable():
			problems = append(problems, fmt.Sprintf("key %d has identifiable type %s which is only allowed at position 0", i, key.Type))
		case !key.Type.IsElement():
			problems = append(problems, fmt.Sprintf("key %d has unsupported type %s", i, key.Type))
		}

		if key.Value == nil && ref.Keys[i-1].Type != KeyTypeSubmodelElementList {
			problems = append(problems, fmt.Sprintf("key %d has no value and its parent is not a SubmodelElementList", i))
		}
	}

	return problems
}

// IsValid is shorthand for len(Validate(ref)) == 0.
func IsValid(ref *Reference) bool {
	return len(Validate(ref)) == 0
}

// ToPath builds the path of the referenced element relative to the AAS service
// base URL. The result has no leading slash. Identifiers are encoded with the
// padded URL-safe base64 alphabet; nested elements form an idShortPath joined by dots.
//
//	[Submodel "x", SubmodelElementCollection "y", SubmodelElement "z"]
//	-> submodels/base64url(x)/submodel-elements/y.z
func ToPath(ref *Reference) (string, error) {
	if problems := Validate(ref); len(problems) > 0 {
		return "", &MalformedReferenceError{Reference: ref, Problems: problems}
	}

	root := ref.Keys[0]
	var sb strings.Builder
	sb.WriteString(identifiableKeyTypes[root.Type])
	sb.WriteString(EncodeIdentifier(*root.Value))

	for i, key := range ref.Keys[1:] {
		if key.Value == nil {
			return "", fmt.Errorf("%w: key %d of %s", ErrUnresolvableListIndex, i+1, ref)
		}
		if i == 0 {
			sb.WriteString(submodelElementsSegment)
		} else {
			sb.WriteByte('.')
		}
		sb.WriteString(*key.Value)
	}

	return sb.String(), nil
}

// IDShortPath returns the dot-joined values of all keys below the root, or ""
// for a reference to an identifiable.
func IDShortPath(ref *Reference) string {
	if ref.IsEmpty() || len(ref.Keys) == 1 {
		return ""
	}
	parts := make([]string, 0, len(ref.Keys)-1)
	for _, key := range ref.Keys[1:] {
		if key.Value != nil {
			parts = append(parts, *key.Value)
		}
	}
	return strings.Join(parts, ".")
}

// EncodeIdentifier encodes an AAS identifier for use as a path segment.
func EncodeIdentifier(id string) string {
	return common.EncodeString(id)
}

// DecodeIdentifier reverses EncodeIdentifier.
func DecodeIdentifier(encoded string) (string, error) {
	decoded, err := common.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("AASREF-DECODEID-INVALIDBASE64 %q: %w", encoded, err)
	}
	return decoded, nil
}
