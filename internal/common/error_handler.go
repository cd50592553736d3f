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

//nolint:revive
package common

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ErrorHandler is the JSON body of every error response of the data plane.
type ErrorHandler struct {
	MessageType   string `json:"messageType"`
	Text          string `json:"text"`
	Code          string `json:"code,omitempty"`
	CorrelationId string `json:"correlationId,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

func NewErrorHandler(messageType string, text error, code string, correlationId string, timestamp string) *ErrorHandler {
	return &ErrorHandler{
		MessageType:   messageType,
		Text:          text.Error(),
		Code:          code,
		CorrelationId: correlationId,
		Timestamp:     timestamp,
	}
}

const (
	prefixNotFound       = "404 Not Found: "
	prefixBadRequest     = "400 Bad Request: "
	prefixInternalError  = "500 Internal Server Error: "
	prefixBadGateway     = "502 Bad Gateway: "
	prefixServiceUnavail = "503 Service Unavailable: "
)

func NewErrNotFound(elementId string) error {
	return errors.New(prefixNotFound + elementId)
}

func NewErrBadRequest(message string) error {
	return errors.New(prefixBadRequest + message)
}

func NewInternalServerError(message string) error {
	return errors.New(prefixInternalError + message)
}

// NewErrBadGateway marks a failure of an upstream AAS service.
func NewErrBadGateway(message string) error {
	return errors.New(prefixBadGateway + message)
}

func NewErrServiceUnavailable(message string) error {
	return errors.New(prefixServiceUnavail + message)
}

func IsErrNotFound(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), prefixNotFound)
}

func IsErrBadRequest(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), prefixBadRequest)
}

func IsInternalServerError(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), prefixInternalError)
}

func IsErrBadGateway(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), prefixBadGateway)
}

func IsErrServiceUnavailable(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), prefixServiceUnavail)
}

// StatusCodeOf maps an error created by one of the constructors above to its
// HTTP status. Unknown errors map to 500.
func StatusCodeOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsErrBadRequest(err):
		return http.StatusBadRequest
	case IsErrNotFound(err):
		return http.StatusNotFound
	case IsErrBadGateway(err):
		return http.StatusBadGateway
	case IsErrServiceUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the error body for err with a fresh correlation id.
func NewErrorResponse(err error, code string) *ErrorHandler {
	messageType := "Error"
	if StatusCodeOf(err) < http.StatusInternalServerError {
		messageType = "Warning"
	}
	return NewErrorHandler(messageType, err, code, uuid.NewString(), GetCurrentTimestamp())
}
