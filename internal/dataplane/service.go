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

package dataplane

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common/logger"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataaddress"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/processor"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PublicPathPrefix is the path below which the public proxy is served.
const PublicPathPrefix = "/public"

// Service keeps the flows of this data plane in memory.
type Service struct {
	factory    *processor.Factory
	aasEnabled bool
	publicURL  string
	validate   *validator.Validate

	mu    sync.RWMutex
	flows map[string]*flowEntry
	wg    sync.WaitGroup
}

// NewService creates a service. publicURL is the externally reachable base URL
// of this data plane, used to build endpoint data references of pull flows.
func NewService(factory *processor.Factory, cfg common.DataPlaneConfig, publicURL string) *Service {
	return &Service{
		factory:    factory,
		aasEnabled: cfg.AasEnabled,
		publicURL:  strings.TrimSuffix(publicURL, "/"),
		validate:   validator.New(),
		flows:      make(map[string]*flowEntry),
	}
}

// Start validates req and starts the flow. Push flows run in the background;
// use Await to wait for their completion.
func (s *Service) Start(ctx context.Context, req StartRequest) (Flow, error) {
	if err := s.validate.Struct(req); err != nil {
		return Flow{}, common.NewErrBadRequest("DATAPLANE-START-INVALIDREQUEST " + err.Error())
	}

	source, err := s.sourceAddress(req)
	if err != nil {
		return Flow{}, common.NewErrBadRequest("DATAPLANE-START-INVALIDSOURCE " + err.Error())
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	entry := &flowEntry{
		flow: Flow{
			ID:        id,
			Type:      req.FlowType,
			State:     FlowStateStarted,
			CreatedAt: now,
			UpdatedAt: now,
		},
		source: source,
		done:   make(chan struct{}),
	}

	if req.FlowType == FlowTypePush {
		entry.destination, err = s.resolve(req.Destination)
		if err != nil {
			return Flow{}, common.NewErrBadRequest("DATAPLANE-START-INVALIDDESTINATION " + err.Error())
		}
	} else {
		edr := s.endpointDataReference(id)
		entry.flow.EndpointDataReference = &edr
	}

	s.mu.Lock()
	if _, exists := s.flows[id]; exists {
		s.mu.Unlock()
		return Flow{}, common.NewErrBadRequest("DATAPLANE-START-DUPLICATEID flow " + id + " already exists")
	}
	s.flows[id] = entry
	s.mu.Unlock()

	if req.FlowType == FlowTypePush {
		pushCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		entry.cancel = cancel
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer cancel()
			s.finish(id, s.push(pushCtx, entry))
		}()
	}

	logger.LogInfo(fmt.Sprintf("started %s flow %s", req.FlowType, id))
	return s.snapshot(entry), nil
}

// Get returns the flow with the given id.
func (s *Service) Get(id string) (Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.flows[id]
	if !ok {
		return Flow{}, common.NewErrNotFound("flow " + id)
	}
	return entry.flow, nil
}

// List returns all flows.
func (s *Service) List() []Flow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Flow, 0, len(s.flows))
	for _, entry := range s.flows {
		out = append(out, entry.flow)
	}
	return out
}

// Terminate stops a flow. Running push transfers are cancelled.
func (s *Service) Terminate(id string) (Flow, error) {
	s.mu.Lock()
	entry, ok := s.flows[id]
	if !ok {
		s.mu.Unlock()
		return Flow{}, common.NewErrNotFound("flow " + id)
	}
	if entry.flow.IsFinal() {
		s.mu.Unlock()
		return entry.flow, nil
	}
	s.setState(entry, FlowStateTerminated, "")
	cancel := entry.cancel
	snapshot := entry.flow
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	logger.LogInfo("terminated flow " + id)
	return snapshot, nil
}

// Await blocks until the flow has finished or ctx is done.
func (s *Service) Await(ctx context.Context, id string) (Flow, error) {
	s.mu.RLock()
	entry, ok := s.flows[id]
	s.mu.RUnlock()
	if !ok {
		return Flow{}, common.NewErrNotFound("flow " + id)
	}
	if entry.flow.Type == FlowTypePull {
		return s.Get(id)
	}
	select {
	case <-entry.done:
		return s.Get(id)
	case <-ctx.Done():
		return Flow{}, ctx.Err()
	}
}

// Close cancels all running transfers and waits for them.
func (s *Service) Close() {
	s.mu.RLock()
	for _, entry := range s.flows {
		if entry.cancel != nil {
			entry.cancel()
		}
	}
	s.mu.RUnlock()
	s.wg.Wait()
}

// sourceAddress copies the source of req and takes the proxy overrides from
// its destination.
func (s *Service) sourceAddress(req StartRequest) (*dataaddress.AasDataAddress, error) {
	b := dataaddress.NewBuilder()
	if req.Source.Type == dataaddress.TypeHTTPData {
		base, err := dataaddress.FromHTTPDataAddress(req.Source)
		if err != nil {
			return nil, err
		}
		b.CopyFromAddress(base)
	} else {
		b.CopyFrom(req.Source)
	}

	if s.aasEnabled {
		for _, key := range []string{
			dataaddress.PropertyProxyOperation,
			dataaddress.PropertyProxyMethod,
			dataaddress.PropertyProxyBody,
			dataaddress.PropertyProxyPath,
		} {
			if value, ok := req.Destination.StringProperty(key); ok {
				b.Property(key, value)
			}
		}
	}

	addr, err := b.Build()
	if err != nil {
		return nil, err
	}
	return s.attach(addr)
}

func (s *Service) resolve(d dataaddress.DataAddress) (*dataaddress.AasDataAddress, error) {
	addr, err := dataaddress.ParseAny(d)
	if err != nil {
		return nil, err
	}
	return s.attach(addr)
}

// attach checks that addr targets an allowed service, adds the credentials of
// the registered provider and, with AAS semantics disabled, reduces addr to
// its plain HTTP form.
func (s *Service) attach(addr *dataaddress.AasDataAddress) (*dataaddress.AasDataAddress, error) {
	if addr.BaseURL() == "" {
		return nil, processor.ErrMissingBaseURL
	}
	_, registered, err := s.factory.ProcessorFor(addr.BaseURL())
	if err != nil {
		return nil, err
	}

	b := dataaddress.NewBuilder().CopyFromAddress(addr)
	if registered != nil {
		b.HeaderSource(registered)
	}
	addr, err = b.Build()
	if err != nil {
		return nil, err
	}

	if s.aasEnabled {
		return addr, nil
	}
	plain, err := addr.AsHTTPDataAddress()
	if err != nil {
		return nil, err
	}
	return dataaddress.NewBuilder().
		BaseURL(plain.BaseURL).
		Method(plain.Method).
		Path(plain.Path).
		AdditionalHeaders(plain.Headers).
		Build()
}

func (s *Service) endpointDataReference(id string) dataaddress.DataAddress {
	edr := dataaddress.HTTPDataAddress{
		BaseURL: s.publicURL + PublicPathPrefix + "/" + id,
		Method:  http.MethodGet,
	}
	return edr.ToDataAddress()
}

func (s *Service) finish(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.flows[id]
	if !ok {
		return
	}
	defer close(entry.done)

	if entry.flow.State == FlowStateTerminated {
		return
	}
	if err != nil {
		logger.LogError("flow "+id, err)
		s.setState(entry, FlowStateFailed, err.Error())
		return
	}
	s.setState(entry, FlowStateCompleted, "")
}

// setState must be called with s.mu held.
func (s *Service) setState(entry *flowEntry, state FlowState, detail string) {
	entry.flow.State = state
	entry.flow.Error = detail
	entry.flow.UpdatedAt = time.Now().UTC()
}

func (s *Service) snapshot(entry *flowEntry) Flow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entry.flow
}

func (s *Service) entry(id string) (*flowEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.flows[id]
	if !ok {
		return nil, common.NewErrNotFound("flow " + id)
	}
	if entry.flow.IsFinal() {
		return nil, common.NewErrBadRequest("DATAPLANE-PROXY-FLOWFINISHED flow " + id + " is " + string(entry.flow.State))
	}
	return entry, nil
}
