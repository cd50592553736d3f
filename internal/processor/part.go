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

package processor

import (
	"bytes"
	"io"
	"net/http"
)

// Part is one unit of data read from a source and sent to a destination.
type Part interface {
	Name() string
	MediaType() string
	OpenStream() (io.ReadCloser, error)
}

// BytesPart is an in-memory Part.
type BytesPart struct {
	name      string
	mediaType string
	data      []byte
}

// NewBytesPart wraps data. The data must not be modified afterwards.
func NewBytesPart(name string, mediaType string, data []byte) *BytesPart {
	return &BytesPart{name: name, mediaType: mediaType, data: data}
}

func (p *BytesPart) Name() string      { return p.name }
func (p *BytesPart) MediaType() string { return p.mediaType }

// OpenStream can be called more than once.
func (p *BytesPart) OpenStream() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(p.data)), nil
}

// ResponsePart streams the body of a response. OpenStream hands over the body
// and must only be called once.
type ResponsePart struct {
	name     string
	response *http.Response
}

// NewResponsePart wraps response, which the part takes ownership of.
func NewResponsePart(name string, response *http.Response) *ResponsePart {
	return &ResponsePart{name: name, response: response}
}

func (p *ResponsePart) Name() string { return p.name }

func (p *ResponsePart) MediaType() string {
	return p.response.Header.Get("Content-Type")
}

func (p *ResponsePart) OpenStream() (io.ReadCloser, error) {
	return p.response.Body, nil
}
