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

// Package processor executes HTTP requests against AAS services for a given
// data address. A processor is stateless; connection pooling, retries and
// timeouts belong to the injected HTTP client.
package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common/logger"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataaddress"
)

const (
	// MediaTypeJSON is the content type of operation invocations.
	MediaTypeJSON = "application/json"

	invokeSegment = "invoke"
	valueSegment  = "$value"
)

// ErrMissingBaseURL is returned before any network call when the address has no base URL.
var ErrMissingBaseURL = common.NewErrBadRequest("AASPROC-SEND-MISSINGBASEURL data address has no base URL")

// ErrBodyNotAllowed is returned by SendPart when the destination method cannot carry a body.
var ErrBodyNotAllowed = common.NewErrBadRequest("AASPROC-SENDPART-NOBODY destination address method does not allow request body")

// ErrDotSegment is returned when a proxy path would leave the addressed element.
var ErrDotSegment = common.NewErrBadRequest("AASPROC-SEND-DOTSEGMENT proxy path must not contain . or .. segments")

// HTTPClient executes requests. Implementations must be safe for concurrent use.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Processor sends requests described by AAS data addresses.
type Processor struct {
	client HTTPClient
}

// New returns a processor using client. A nil client means http.DefaultClient.
func New(client HTTPClient) *Processor {
	if client == nil {
		client = http.DefaultClient
	}
	return &Processor{client: client}
}

// Send issues the request of addr without a caller body.
func (p *Processor) Send(ctx context.Context, addr *dataaddress.AasDataAddress) (*http.Response, error) {
	return p.execute(ctx, addr, nil, "")
}

// SendBody issues the request of addr with body of the given media type.
func (p *Processor) SendBody(ctx context.Context, addr *dataaddress.AasDataAddress, body []byte, mediaType string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	return p.execute(ctx, addr, reader, mediaType)
}

// SendPart issues the request of addr with the content of part as body.
func (p *Processor) SendPart(ctx context.Context, addr *dataaddress.AasDataAddress, part Part) (*http.Response, error) {
	if part == nil {
		return p.execute(ctx, addr, nil, "")
	}
	if addr != nil && !permitsBody(addr.Method()) {
		return nil, ErrBodyNotAllowed
	}
	stream, err := part.OpenStream()
	if err != nil {
		return nil, fmt.Errorf("AASPROC-SENDPART-OPENSTREAM %s: %w", part.Name(), err)
	}
	defer func() {
		_ = stream.Close()
	}()
	return p.execute(ctx, addr, stream, part.MediaType())
}

// BuildRequest constructs the request for addr without sending it.
func (p *Processor) BuildRequest(ctx context.Context, addr *dataaddress.AasDataAddress, body io.Reader, mediaType string) (*http.Request, error) {
	if addr == nil || addr.BaseURL() == "" {
		return nil, ErrMissingBaseURL
	}

	path, err := addr.Path()
	if err != nil {
		return nil, common.NewErrBadRequest("AASPROC-SEND-NOPATH " + err.Error())
	}
	segments := splitPath(path)

	method := addr.Method()
	if addr.HasProxyOperation() {
		operation, _ := addr.ProxyOperation()
		segments = append(segments, invokeSegment, valueSegment)
		method = http.MethodPost
		body = strings.NewReader(operation)
		mediaType = MediaTypeJSON
	} else {
		if proxyMethod, ok := addr.ProxyMethod(); ok && proxyMethod != "" {
			method = proxyMethod
		}
		if body == nil {
			if proxyBody, ok := addr.ProxyBody(); ok {
				body = strings.NewReader(proxyBody)
				if mediaType == "" {
					mediaType = MediaTypeJSON
				}
			}
		}
		if proxyPath, ok := addr.ProxyPath(); ok {
			extra := splitPath(proxyPath)
			if hasDotSegment(extra) {
				return nil, ErrDotSegment
			}
			segments = append(segments, extra...)
		}
	}

	target, err := joinURL(addr.BaseURL(), segments)
	if err != nil {
		return nil, err
	}

	if !permitsBody(method) {
		body = nil
		mediaType = ""
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, common.NewErrBadRequest("AASPROC-SEND-BUILDREQUEST " + err.Error())
	}
	for name, value := range addr.AdditionalHeaders() {
		req.Header.Set(name, value)
	}
	if body != nil && mediaType != "" {
		req.Header.Set("Content-Type", mediaType)
	}
	return req, nil
}

func (p *Processor) execute(ctx context.Context, addr *dataaddress.AasDataAddress, body io.Reader, mediaType string) (*http.Response, error) {
	req, err := p.BuildRequest(ctx, addr, body, mediaType)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		logger.LogRequest(req.Method, req.URL.Redacted(), 0)
		return nil, fmt.Errorf("AASPROC-SEND-REQUESTFAILED %s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	logger.LogRequest(req.Method, req.URL.Redacted(), resp.StatusCode)
	return resp, nil
}

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func hasDotSegment(segments []string) bool {
	for _, segment := range segments {
		if decoded, err := url.PathUnescape(segment); err == nil {
			segment = decoded
		}
		if segment == "." || segment == ".." {
			return true
		}
	}
	return false
}

// joinURL appends segments to baseURL, escaping each one on its own.
func joinURL(baseURL string, segments []string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrMalformedURL, baseURL, err)
	}
	if len(segments) == 0 {
		return u.String(), nil
	}

	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	rawPath := strings.TrimSuffix(u.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	unescaped, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrMalformedURL, baseURL, err)
	}
	u.Path = unescaped
	u.RawPath = rawPath
	return u.String(), nil
}

func permitsBody(method string) bool {
	return method != http.MethodGet && method != http.MethodHead
}
