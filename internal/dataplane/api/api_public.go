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
	"io"
	"net/http"
	"strings"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common/logger"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataplane"
	"github.com/go-chi/chi/v5"
)

var proxiedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Headers of the upstream response that are not copied to the consumer.
var hopByHopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Proxy-Connection":  true,
	"Te":                true,
	"Trailer":           true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
}

// PublicAPIController serves the public endpoint of pull flows.
type PublicAPIController struct {
	service      FlowServicer
	contextPath  string
	errorHandler ErrorHandler
}

// NewPublicAPIController creates a controller serving below contextPath.
func NewPublicAPIController(s FlowServicer, contextPath string) *PublicAPIController {
	return &PublicAPIController{
		service:      s,
		contextPath:  strings.TrimSuffix(contextPath, "/"),
		errorHandler: DefaultErrorHandler,
	}
}

// Routes returns all the api routes for the PublicAPIController
func (c *PublicAPIController) Routes() Routes {
	routes := Routes{}
	base := c.contextPath + dataplane.PublicPathPrefix + "/{flowId}"
	for _, method := range proxiedMethods {
		routes["Proxy"+method] = Route{method, base, c.ProxyFlow}
		routes["ProxySubPath"+method] = Route{method, base + "/*", c.ProxyFlow}
	}
	return routes
}

// ProxyFlow - forwards the consumer request to the source of a pull flow and
// streams the upstream response back
func (c *PublicAPIController) ProxyFlow(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		c.errorHandler(w, r, &ParsingError{Param: "body", Err: err})
		return
	}

	resp, err := c.service.Proxy(r.Context(), chi.URLParam(r, "flowId"), dataplane.ProxyRequest{
		Method:    r.Method,
		Path:      chi.URLParam(r, "*"),
		Body:      body,
		MediaType: r.Header.Get("Content-Type"),
	})
	if err != nil {
		c.errorHandler(w, r, err)
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	for name, values := range resp.Header {
		if hopByHopHeaders[http.CanonicalHeaderKey(name)] {
			continue
		}
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.LogWarning("copying upstream response: " + err.Error())
	}
}
