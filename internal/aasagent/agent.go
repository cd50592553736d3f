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

// Package aasagent reads the content of an AAS service and maps every
// identifiable and submodel element to a reference and a data address.
package aasagent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common/logger"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataaddress"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/processor"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/provider"
	"github.com/aas-core-works/aas-core3.0-golang/jsonization"
	"github.com/aas-core-works/aas-core3.0-golang/types"
	jsoniter "github.com/json-iterator/go"
)

// Paths of the list endpoints of an AAS service.
const (
	ShellsPath              = "shells"
	SubmodelsPath           = "submodels"
	ConceptDescriptionsPath = "concept-descriptions"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Environment is the content of one AAS service.
type Environment struct {
	Shells              []types.IAssetAdministrationShell
	Submodels           []types.ISubmodel
	ConceptDescriptions []types.IConceptDescription
}

// Agent reads environments through a processor.
type Agent struct {
	processor *processor.Processor
}

// New returns an agent sending its requests through p.
func New(p *processor.Processor) *Agent {
	return &Agent{processor: p}
}

// ReadEnvironment reads shells, submodels and concept descriptions of prov.
// A failing list does not stop the others: the environment then holds what
// could be read and the error describes every failed list.
func (a *Agent) ReadEnvironment(ctx context.Context, prov *provider.Provider) (*Environment, error) {
	env := &Environment{}
	var errs []error

	shells, err := readElements(ctx, a.processor, prov, ShellsPath, jsonization.AssetAdministrationShellFromJsonable)
	if err != nil {
		errs = append(errs, err)
	}
	env.Shells = shells

	submodels, err := readElements(ctx, a.processor, prov, SubmodelsPath, jsonization.SubmodelFromJsonable)
	if err != nil {
		errs = append(errs, err)
	}
	env.Submodels = submodels

	conceptDescriptions, err := readElements(ctx, a.processor, prov, ConceptDescriptionsPath, jsonization.ConceptDescriptionFromJsonable)
	if err != nil {
		errs = append(errs, err)
	}
	env.ConceptDescriptions = conceptDescriptions

	if len(errs) > 0 {
		logger.LogWarning(fmt.Sprintf("reading environment of %s was incomplete: %v", prov.BaseURL(), errors.Join(errs...)))
		return env, errors.Join(errs...)
	}
	return env, nil
}

type listResult struct {
	Result []any `json:"result"`
}

func readElements[T any](ctx context.Context, p *processor.Processor, prov *provider.Provider, path string, decode func(jsonable any) (T, error)) ([]T, error) {
	addr, err := dataaddress.NewBuilder().
		Method(http.MethodGet).
		Provider(prov).
		Path(path).
		Build()
	if err != nil {
		return nil, err
	}

	resp, err := p.Send(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("AASAGENT-READ-REQUESTFAILED %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, common.NewErrBadGateway(fmt.Sprintf("AASAGENT-READ-UNEXPECTEDSTATUS reading %s returned %d", path, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("AASAGENT-READ-BODY %s: %w", path, err)
	}

	var list listResult
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("AASAGENT-READ-MALFORMEDJSON %s: %w", path, err)
	}

	out := make([]T, 0, len(list.Result))
	for i, jsonable := range list.Result {
		element, err := decode(jsonable)
		if err != nil {
			return nil, fmt.Errorf("AASAGENT-READ-DESERIALIZE %s[%d]: %w", path, i, err)
		}
		out = append(out, element)
	}
	return out, nil
}
