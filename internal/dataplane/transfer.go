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
	"io"
	"net/http"
	"strings"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataaddress"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/processor"
)

// ProxyRequest is a consumer request received on the public endpoint of a pull flow.
type ProxyRequest struct {
	Method    string
	Path      string
	Body      []byte
	MediaType string
}

// Proxy forwards in to the source of the pull flow id. With AAS semantics
// enabled the consumer request becomes the proxy overrides of the source
// address; a POST to "invoke" or "invoke/$value" invokes the addressed
// operation. Otherwise the plain source address is requested unchanged.
func (s *Service) Proxy(ctx context.Context, id string, in ProxyRequest) (*http.Response, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	if entry.flow.Type != FlowTypePull {
		return nil, common.NewErrBadRequest("DATAPLANE-PROXY-NOTPULL flow " + id + " is a push flow")
	}

	addr := entry.source
	if s.aasEnabled {
		addr, err = withProxyOverrides(addr, in)
		if err != nil {
			return nil, common.NewErrBadRequest("DATAPLANE-PROXY-ADDRESS " + err.Error())
		}
	}

	proc, _, err := s.factory.ProcessorFor(addr.BaseURL())
	if err != nil {
		return nil, err
	}
	if s.aasEnabled && len(in.Body) > 0 {
		return proc.SendBody(ctx, addr, in.Body, in.MediaType)
	}
	return proc.Send(ctx, addr)
}

func withProxyOverrides(source *dataaddress.AasDataAddress, in ProxyRequest) (*dataaddress.AasDataAddress, error) {
	b := dataaddress.NewBuilder().CopyFromAddress(source)
	path := strings.Trim(in.Path, "/")

	if in.Method == http.MethodPost && (path == "invoke" || path == "invoke/$value") {
		payload := string(in.Body)
		if payload == "" {
			payload = "{}"
		}
		return b.ProxyOperation(payload).Build()
	}

	if in.Method != "" {
		b.ProxyMethod(in.Method)
	}
	if len(in.Body) > 0 {
		b.ProxyBody(string(in.Body))
	}
	if path != "" {
		b.ProxyPath(path)
	}
	return b.Build()
}

// push reads the source of entry and writes it to the destination.
func (s *Service) push(ctx context.Context, entry *flowEntry) error {
	if entry.destination.Method() == http.MethodGet || entry.destination.Method() == http.MethodHead {
		return common.NewErrBadRequest("DATAPLANE-PUSH-SINKMETHOD destination method " + entry.destination.Method() + " cannot carry data")
	}

	sourceProc, _, err := s.factory.ProcessorFor(entry.source.BaseURL())
	if err != nil {
		return err
	}
	resp, err := sourceProc.Send(ctx, entry.source)
	if err != nil {
		return fmt.Errorf("DATAPLANE-PUSH-READSOURCE %w", err)
	}
	if !successful(resp.StatusCode) {
		drain(resp)
		return common.NewErrBadGateway(fmt.Sprintf("DATAPLANE-PUSH-READSOURCE source returned %d", resp.StatusCode))
	}

	name, _ := entry.source.Path()
	sinkProc, _, err := s.factory.ProcessorFor(entry.destination.BaseURL())
	if err != nil {
		drain(resp)
		return err
	}
	out, err := sinkProc.SendPart(ctx, entry.destination, processor.NewResponsePart(name, resp))
	if err != nil {
		return fmt.Errorf("DATAPLANE-PUSH-WRITESINK %w", err)
	}
	defer drain(out)
	if !successful(out.StatusCode) {
		return common.NewErrBadGateway(fmt.Sprintf("DATAPLANE-PUSH-WRITESINK destination returned %d", out.StatusCode))
	}
	return nil
}

func successful(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
