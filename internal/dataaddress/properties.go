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

package dataaddress

import (
	"fmt"
	"strings"
)

// Namespaces of the well-known property keys.
const (
	EDCNamespace = "https://w3id.org/edc/v0.0.1/ns/"
	AASNamespace = "https://admin-shell.io/aas/3/0/"
)

// Type tags of data addresses.
const (
	TypeAasData  = "AasData"
	TypeHTTPData = "HttpData"
)

// Property keys of the generic property-bag representation.
const (
	PropertyType           = EDCNamespace + "type"
	PropertyBaseURL        = EDCNamespace + "baseUrl"
	PropertyMethod         = EDCNamespace + "method"
	PropertyPath           = AASNamespace + "path"
	PropertyReferenceChain = AASNamespace + "referenceChain"
	PropertyProxyOperation = AASNamespace + "proxyOperation"
	PropertyProxyMethod    = AASNamespace + "proxyMethod"
	PropertyProxyBody      = AASNamespace + "proxyBody"
	PropertyProxyPath      = AASNamespace + "proxyPath"

	// HeaderPrefix namespaces additional request headers inside the property bag.
	HeaderPrefix = "aas:header:"

	// httpHeaderPrefix is the header prefix of plain HTTP data addresses.
	httpHeaderPrefix = "header:"
)

// shortNames maps un-namespaced property keys, as sent by clients that do not
// expand JSON-LD, to their namespaced form.
var shortNames = map[string]string{
	"type":           PropertyType,
	"baseUrl":        PropertyBaseURL,
	"method":         PropertyMethod,
	"path":           PropertyPath,
	"referenceChain": PropertyReferenceChain,
	"proxyOperation": PropertyProxyOperation,
	"proxyMethod":    PropertyProxyMethod,
	"proxyBody":      PropertyProxyBody,
	"proxyPath":      PropertyProxyPath,
}

func canonicalKey(key string) string {
	if full, ok := shortNames[key]; ok {
		return full
	}
	return key
}

// DataAddress is the generic, transport-agnostic address shape of the host
// connector: a type tag plus a bag of properties.
type DataAddress struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// StringProperty returns the property stored under key (or its short name) as string.
func (d DataAddress) StringProperty(key string) (string, bool) {
	if d.Properties == nil {
		return "", false
	}
	value, ok := d.Properties[key]
	if !ok {
		for short, full := range shortNames {
			if full == key {
				value, ok = d.Properties[short]
				break
			}
		}
	}
	if !ok || value == nil {
		return "", false
	}
	return stringify(value), true
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func isHeaderKey(key string) (string, bool) {
	if strings.HasPrefix(key, HeaderPrefix) {
		return strings.TrimPrefix(key, HeaderPrefix), true
	}
	return "", false
}
