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

package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataplane"
	"github.com/go-chi/chi/v5"
)

// maxRequestBody limits the size of request bodies accepted by the data plane.
const maxRequestBody = 32 << 20

// FlowServicer is the flow management the controllers delegate to.
// *dataplane.Service implements it.
type FlowServicer interface {
	Start(ctx context.Context, req dataplane.StartRequest) (dataplane.Flow, error)
	Get(id string) (dataplane.Flow, error)
	List() []dataplane.Flow
	Terminate(id string) (dataplane.Flow, error)
	Proxy(ctx context.Context, id string, in dataplane.ProxyRequest) (*http.Response, error)
}

// FlowAPIController binds the flow management endpoints to a FlowServicer.
type FlowAPIController struct {
	service      FlowServicer
	contextPath  string
	errorHandler ErrorHandler
}

// FlowAPIOption for how the controller is set up.
type FlowAPIOption func(*FlowAPIController)

// WithFlowAPIErrorHandler inject ErrorHandler into controller
func WithFlowAPIErrorHandler(h ErrorHandler) FlowAPIOption {
	return func(c *FlowAPIController) {
		c.errorHandler = h
	}
}

// NewFlowAPIController creates a controller serving below contextPath.
func NewFlowAPIController(s FlowServicer, contextPath string, opts ...FlowAPIOption) *FlowAPIController {
	controller := &FlowAPIController{
		service:      s,
		contextPath:  strings.TrimSuffix(contextPath, "/"),
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Routes returns all the api routes for the FlowAPIController
func (c *FlowAPIController) Routes() Routes {
	return Routes{
		"StartFlow": Route{
			http.MethodPost,
			c.contextPath + "/flows",
			c.StartFlow,
		},
		"GetAllFlows": Route{
			http.MethodGet,
			c.contextPath + "/flows",
			c.GetAllFlows,
		},
		"GetFlowByID": Route{
			http.MethodGet,
			c.contextPath + "/flows/{flowId}",
			c.GetFlowByID,
		},
		"TerminateFlow": Route{
			http.MethodPost,
			c.contextPath + "/flows/{flowId}/terminate",
			c.TerminateFlow,
		},
	}
}

// StartFlow - starts a pull or push flow
func (c *FlowAPIController) StartFlow(w http.ResponseWriter, r *http.Request) {
	var req dataplane.StartRequest
	d := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := d.Decode(&req); err != nil {
		c.errorHandler(w, r, &ParsingError{Param: "body", Err: err})
		return
	}
	flow, err := c.service.Start(r.Context(), req)
	if err != nil {
		c.errorHandler(w, r, err)
		return
	}
	status := http.StatusCreated
	_ = EncodeJSONResponse(flow, &status, w)
}

// GetAllFlows - returns flows ordered by creation time, optionally paged with
// the limit and cursor query parameters
func (c *FlowAPIController) GetAllFlows(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.errorHandler(w, r, &ParsingError{Param: "limit", Err: errors.New("must be a positive integer")})
			return
		}
		limit = parsed
	}

	flows := c.service.List()
	sort.Slice(flows, func(i, j int) bool {
		if flows[i].CreatedAt.Equal(flows[j].CreatedAt) {
			return flows[i].ID < flows[j].ID
		}
		return flows[i].CreatedAt.Before(flows[j].CreatedAt)
	})

	start := 0
	if cursor := query.Get("cursor"); cursor != "" {
		id, err := common.DecodeString(cursor)
		if err != nil {
			c.errorHandler(w, r, &ParsingError{Param: "cursor", Err: err})
			return
		}
		start = slices.IndexFunc(flows, func(f dataplane.Flow) bool { return f.ID == id })
		if start < 0 {
			c.errorHandler(w, r, common.NewErrBadRequest("FLOWAPI-GETALL-UNKNOWNCURSOR "+cursor))
			return
		}
	}

	end := len(flows)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	result := common.PagedResult{Result: flows[start:end]}
	if end < len(flows) {
		result.Cursor = common.EncodeString(flows[end].ID)
	}
	_ = EncodeJSONResponse(result, nil, w)
}

// GetFlowByID - returns a single flow
func (c *FlowAPIController) GetFlowByID(w http.ResponseWriter, r *http.Request) {
	flow, err := c.service.Get(chi.URLParam(r, "flowId"))
	if err != nil {
		c.errorHandler(w, r, err)
		return
	}
	_ = EncodeJSONResponse(flow, nil, w)
}

// TerminateFlow - stops a flow
func (c *FlowAPIController) TerminateFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := c.service.Terminate(chi.URLParam(r, "flowId"))
	if err != nil {
		c.errorHandler(w, r, err)
		return
	}
	_ = EncodeJSONResponse(flow, nil, w)
}
