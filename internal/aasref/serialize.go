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

	jsoniter "github.com/json-iterator/go"
)

var jsonP = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseError reports a string that could not be parsed into a Reference.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("AASREF-PARSE-FAULTYCHAIN faulty reference chain %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Serialize writes ref in the AAS JSON form used to carry it inside a data address:
//
//	{"type":"ModelReference","keys":[{"type":"Submodel","value":"x"}]}
func Serialize(ref *Reference) (string, error) {
	if ref == nil {
		return "", errors.New("AASREF-SERIALIZE-NILREFERENCE reference is nil")
	}
	keys := ref.Keys
	if keys == nil {
		keys = []Key{}
	}
	payload, err := jsonP.Marshal(Reference{Type: ref.Type, Keys: keys})
	if err != nil {
		return "", fmt.Errorf("AASREF-SERIALIZE-MARSHAL %w", err)
	}
	return string(payload), nil
}

// ParseReference reverses Serialize. Key order, types and values are kept exactly;
// unknown key or reference types are rejected.
func ParseReference(s string) (*Reference, error) {
	if s == "" {
		return nil, &ParseError{Input: s, Err: errors.New("empty input")}
	}

	var ref Reference
	if err := jsonP.UnmarshalFromString(s, &ref); err != nil {
		return nil, &ParseError{Input: s, Err: err}
	}
	if ref.Type != "" && !ref.Type.IsValid() {
		return nil, &ParseError{Input: s, Err: fmt.Errorf("unknown reference type %q", ref.Type)}
	}
	for i, key := range ref.Keys {
		if _, err := NewKeyTypeFromValue(string(key.Type)); err != nil {
			return nil, &ParseError{Input: s, Err: fmt.Errorf("key %d: %w", i, err)}
		}
	}
	if ref.Keys == nil {
		ref.Keys = []Key{}
	}
	return &ref, nil
}
