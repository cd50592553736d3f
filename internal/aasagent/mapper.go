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

package aasagent

import (
	"fmt"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/aasref"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataaddress"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/provider"
	"github.com/aas-core-works/aas-core3.0-golang/stringification"
	"github.com/aas-core-works/aas-core3.0-golang/types"
	"github.com/google/uuid"
)

// Element is one addressable part of an environment.
type Element struct {
	// ID is derived from the element's URL and stable across reads.
	ID          string
	IDShort     string
	ModelType   string
	IsOperation bool
	// ContentType of File and Blob elements.
	ContentType string
	Reference   *aasref.Reference
	Address     *dataaddress.AasDataAddress
	Children    []Element
}

// Walk calls fn for e and all its descendants, depth first.
func (e Element) Walk(fn func(Element)) {
	fn(e)
	for _, child := range e.Children {
		child.Walk(fn)
	}
}

// MapEnvironment maps all identifiables of env, and all submodel elements below
// the submodels, to elements whose addresses point at prov.
func MapEnvironment(env *Environment, prov *provider.Provider) ([]Element, error) {
	if env == nil {
		return nil, nil
	}
	var out []Element

	for _, shell := range env.Shells {
		e, err := newElement(aasref.ShellReference(shell.ID()), shell.IDShort(), "AssetAdministrationShell", prov)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	for _, submodel := range env.Submodels {
		e, err := newElement(aasref.SubmodelReference(submodel.ID()), submodel.IDShort(), "Submodel", prov)
		if err != nil {
			return nil, err
		}
		e.Children, err = mapChildren(e.Reference, submodel.SubmodelElements(), false, prov)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	for _, cd := range env.ConceptDescriptions {
		e, err := newElement(aasref.ConceptDescriptionReference(cd.ID()), cd.IDShort(), "ConceptDescription", prov)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, nil
}

func mapChildren(parent *aasref.Reference, children []types.ISubmodelElement, parentIsList bool, prov *provider.Provider) ([]Element, error) {
	out := make([]Element, 0, len(children))
	for i, child := range children {
		modelType, ok := stringification.ModelTypeToString(child.ModelType())
		if !ok {
			return nil, fmt.Errorf("AASAGENT-MAP-UNKNOWNMODELTYPE %v below %s", child.ModelType(), parent)
		}
		keyType, err := aasref.NewKeyTypeFromValue(modelType)
		if err != nil {
			return nil, err
		}

		var key aasref.Key
		switch {
		case parentIsList:
			key = aasref.NewIndexKey(keyType, i)
		case child.IDShort() != nil:
			key = aasref.NewKey(keyType, *child.IDShort())
		default:
			return nil, fmt.Errorf("AASAGENT-MAP-MISSINGIDSHORT %s element %d below %s", modelType, i, parent)
		}

		e, err := newElement(parent.With(key), child.IDShort(), modelType, prov)
		if err != nil {
			return nil, err
		}

		switch child.ModelType() {
		case types.ModelTypeSubmodelElementCollection:
			if collection, ok := child.(types.ISubmodelElementCollection); ok {
				e.Children, err = mapChildren(e.Reference, collection.Value(), false, prov)
			}
		case types.ModelTypeSubmodelElementList:
			if list, ok := child.(types.ISubmodelElementList); ok {
				e.Children, err = mapChildren(e.Reference, list.Value(), true, prov)
			}
		case types.ModelTypeOperation:
			e.IsOperation = true
		case types.ModelTypeFile:
			if file, ok := child.(types.IFile); ok && file.ContentType() != nil {
				e.ContentType = *file.ContentType()
			}
		case types.ModelTypeBlob:
			if blob, ok := child.(types.IBlob); ok && blob.ContentType() != nil {
				e.ContentType = *blob.ContentType()
			}
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func newElement(ref *aasref.Reference, idShort *string, modelType string, prov *provider.Provider) (Element, error) {
	addr, err := dataaddress.NewBuilder().Provider(prov).Reference(ref).Build()
	if err != nil {
		return Element{}, err
	}
	path, err := addr.Path()
	if err != nil {
		return Element{}, err
	}

	e := Element{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(addr.BaseURL()+"/"+path)).String(),
		ModelType: modelType,
		Reference: ref,
		Address:   addr,
	}
	if idShort != nil {
		e.IDShort = *idShort
	}
	return e, nil
}
