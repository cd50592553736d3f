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
	"fmt"

	"github.com/aas-core-works/aas-core3.0-golang/stringification"
	"github.com/aas-core-works/aas-core3.0-golang/types"
)

// FromSDK converts a reference of the AAS SDK metamodel.
func FromSDK(ref types.IReference) (*Reference, error) {
	if ref == nil {
		return nil, fmt.Errorf("AASREF-FROMSDK-NILREFERENCE reference is nil")
	}

	refType, ok := stringification.ReferenceTypesToString(ref.Type())
	if !ok {
		return nil, fmt.Errorf("AASREF-FROMSDK-REFTYPE unknown reference type %v", ref.Type())
	}

	out := &Reference{Type: ReferenceType(refType), Keys: make([]Key, 0, len(ref.Keys()))}
	for i, key := range ref.Keys() {
		keyType, ok := stringification.KeyTypesToString(key.Type())
		if !ok {
			return nil, fmt.Errorf("AASREF-FROMSDK-KEYTYPE unknown type %v of key %d", key.Type(), i)
		}
		out.Keys = append(out.Keys, NewKey(KeyType(keyType), key.Value()))
	}
	return out, nil
}

// ToSDK converts ref into the AAS SDK metamodel. Keys without a value have no
// SDK representation and are rejected.
func ToSDK(ref *Reference) (types.IReference, error) {
	if ref == nil {
		return nil, fmt.Errorf("AASREF-TOSDK-NILREFERENCE reference is nil")
	}

	refType, ok := stringification.ReferenceTypesFromString(string(ref.Type))
	if !ok {
		return nil, fmt.Errorf("AASREF-TOSDK-REFTYPE unknown reference type %q", ref.Type)
	}

	keys := make([]types.IKey, 0, len(ref.Keys))
	for i, key := range ref.Keys {
		keyType, ok := stringification.KeyTypesFromString(string(key.Type))
		if !ok {
			return nil, fmt.Errorf("AASREF-TOSDK-KEYTYPE unknown type %q of key %d", key.Type, i)
		}
		if key.Value == nil {
			return nil, fmt.Errorf("AASREF-TOSDK-NILVALUE key %d has no value", i)
		}
		keys = append(keys, types.NewKey(keyType, *key.Value))
	}
	return types.NewReference(refType, keys), nil
}
