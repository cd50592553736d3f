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
	"slices"
)

// KeyType is the type of a single key in a reference chain.
type KeyType string

// List of KeyType values defined by the AAS metamodel.
const (
	KeyTypeAnnotatedRelationshipElement KeyType = "AnnotatedRelationshipElement"
	KeyTypeAssetAdministrationShell     KeyType = "AssetAdministrationShell"
	KeyTypeBasicEventElement            KeyType = "BasicEventElement"
	KeyTypeBlob                         KeyType = "Blob"
	KeyTypeCapability                   KeyType = "Capability"
	KeyTypeConceptDescription           KeyType = "ConceptDescription"
	KeyTypeDataElement                  KeyType = "DataElement"
	KeyTypeEntity                       KeyType = "Entity"
	KeyTypeEventElement                 KeyType = "EventElement"
	KeyTypeFile                         KeyType = "File"
	KeyTypeFragmentReference            KeyType = "FragmentReference"
	KeyTypeGlobalReference              KeyType = "GlobalReference"
	KeyTypeIdentifiable                 KeyType = "Identifiable"
	KeyTypeMultiLanguageProperty        KeyType = "MultiLanguageProperty"
	KeyTypeOperation                    KeyType = "Operation"
	KeyTypeProperty                     KeyType = "Property"
	KeyTypeRange                        KeyType = "Range"
	KeyTypeReferable                    KeyType = "Referable"
	KeyTypeReferenceElement             KeyType = "ReferenceElement"
	KeyTypeRelationshipElement          KeyType = "RelationshipElement"
	KeyTypeSubmodel                     KeyType = "Submodel"
	KeyTypeSubmodelElement              KeyType = "SubmodelElement"
	KeyTypeSubmodelElementCollection    KeyType = "SubmodelElementCollection"
	KeyTypeSubmodelElementList          KeyType = "SubmodelElementList"
)

// AllowedKeyTypeValues is all the allowed values of the KeyType enum.
var AllowedKeyTypeValues = []KeyType{
	KeyTypeAnnotatedRelationshipElement,
	KeyTypeAssetAdministrationShell,
	KeyTypeBasicEventElement,
	KeyTypeBlob,
	KeyTypeCapability,
	KeyTypeConceptDescription,
	KeyTypeDataElement,
	KeyTypeEntity,
	KeyTypeEventElement,
	KeyTypeFile,
	KeyTypeFragmentReference,
	KeyTypeGlobalReference,
	KeyTypeIdentifiable,
	KeyTypeMultiLanguageProperty,
	KeyTypeOperation,
	KeyTypeProperty,
	KeyTypeRange,
	KeyTypeReferable,
	KeyTypeReferenceElement,
	KeyTypeRelationshipElement,
	KeyTypeSubmodel,
	KeyTypeSubmodelElement,
	KeyTypeSubmodelElementCollection,
	KeyTypeSubmodelElementList,
}

// identifiableKeyTypes may only appear as the root of a model reference.
var identifiableKeyTypes = map[KeyType]string{
	KeyTypeAssetAdministrationShell: "shells/",
	KeyTypeSubmodel:                 "submodels/",
	KeyTypeConceptDescription:       "concept-descriptions/",
}

// elementKeyTypes are the key types that address something below a submodel.
var elementKeyTypes = []KeyType{
	KeyTypeSubmodelElement,
	KeyTypeSubmodelElementCollection,
	KeyTypeSubmodelElementList,
	KeyTypeProperty,
	KeyTypeMultiLanguageProperty,
	KeyTypeRange,
	KeyTypeFile,
	KeyTypeBlob,
	KeyTypeReferenceElement,
	KeyTypeCapability,
	KeyTypeEntity,
	KeyTypeRelationshipElement,
	KeyTypeAnnotatedRelationshipElement,
	KeyTypeBasicEventElement,
	KeyTypeEventElement,
	KeyTypeDataElement,
	KeyTypeOperation,
}

// IsValid returns true if the value is one of the AllowedKeyTypeValues.
func (k KeyType) IsValid() bool {
	return slices.Contains(AllowedKeyTypeValues, k)
}

// IsIdentifiable reports whether k addresses a shell, submodel or concept description.
func (k KeyType) IsIdentifiable() bool {
	_, ok := identifiableKeyTypes[k]
	return ok
}

// IsElement reports whether k addresses a submodel element.
func (k KeyType) IsElement() bool {
	return slices.Contains(elementKeyTypes, k)
}

// NewKeyTypeFromValue returns the KeyType for v, or an error if v is not allowed by the enum.
func NewKeyTypeFromValue(v string) (KeyType, error) {
	kt := KeyType(v)
	if kt.IsValid() {
		return kt, nil
	}
	return "", fmt.Errorf("invalid value '%v' for KeyType: valid values are %v", v, AllowedKeyTypeValues)
}

// ReferenceType distinguishes references into an environment from references to the outside.
type ReferenceType string

// List of ReferenceType values.
const (
	ReferenceTypeExternal ReferenceType = "ExternalReference"
	ReferenceTypeModel    ReferenceType = "ModelReference"
)

// IsValid returns true if the value is a known ReferenceType.
func (r ReferenceType) IsValid() bool {
	return r == ReferenceTypeExternal || r == ReferenceTypeModel
}
