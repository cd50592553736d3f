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

// Package dataaddress implements the AAS data address: an immutable value that
// tells the data plane where an AAS element lives (base URL, method, headers and
// either an explicit path or a model reference) and, for proxied provider
// requests, how the incoming client request has to be translated.
package dataaddress

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/aasref"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/provider"
)

// ErrNoPath is returned by Path when the address carries neither an explicit path nor a reference.
var ErrNoPath = errors.New("AASDA-GETPATH-NOPATH address has neither an explicit path nor a reference")

// HeaderSource supplies headers, typically authentication, for every request of an address.
type HeaderSource interface {
	Headers() map[string]string
}

type optionalString struct {
	value string
	set   bool
}

// AasDataAddress is immutable once built. Use NewBuilder to create one.
type AasDataAddress struct {
	baseURL      string
	method       string
	headers      map[string]string
	path         optionalString
	reference    string
	proxy        proxyOverrides
	headerSource HeaderSource
	extensions   map[string]string
}

type proxyOverrides struct {
	operation optionalString
	method    optionalString
	body      optionalString
	path      optionalString
}

// Type returns the type tag, always TypeAasData.
func (a *AasDataAddress) Type() string {
	return TypeAasData
}

// BaseURL returns the base URL of the AAS service, "" if unset.
func (a *AasDataAddress) BaseURL() string {
	return a.baseURL
}

// Method returns the HTTP method, GET if none was set.
func (a *AasDataAddress) Method() string {
	if a.method == "" {
		return http.MethodGet
	}
	return a.method
}

// Path returns the explicit path if one was set, otherwise the path of the
// stored reference (no leading slash).
func (a *AasDataAddress) Path() (string, error) {
	if a.path.set {
		return a.path.value, nil
	}
	if a.reference == "" {
		return "", ErrNoPath
	}
	ref, err := aasref.ParseReference(a.reference)
	if err != nil {
		return "", fmt.Errorf("AASDA-GETPATH-PARSE %w", err)
	}
	return aasref.ToPath(ref)
}

// HasExplicitPath reports whether an explicit path was set.
func (a *AasDataAddress) HasExplicitPath() bool {
	return a.path.set
}

// Reference returns the stored reference, or an empty model reference if none is stored.
func (a *AasDataAddress) Reference() (*aasref.Reference, error) {
	if a.reference == "" {
		return aasref.NewModelReference(), nil
	}
	return aasref.ParseReference(a.reference)
}

// AdditionalHeaders returns the header source's headers overlaid with the
// headers set on this address. Names are in canonical form and local headers
// win on collision.
func (a *AasDataAddress) AdditionalHeaders() map[string]string {
	headers := map[string]string{}
	if a.headerSource != nil {
		for name, value := range a.headerSource.Headers() {
			headers[http.CanonicalHeaderKey(name)] = value
		}
	}
	maps.Copy(headers, a.headers)
	return headers
}

// ProxyOperation returns the operation invocation payload and whether one was set.
func (a *AasDataAddress) ProxyOperation() (string, bool) {
	return a.proxy.operation.value, a.proxy.operation.set
}

// HasProxyOperation reports whether a non-empty operation payload was set.
func (a *AasDataAddress) HasProxyOperation() bool {
	return a.proxy.operation.set && a.proxy.operation.value != ""
}

// ProxyMethod returns the proxied request method and whether one was set.
func (a *AasDataAddress) ProxyMethod() (string, bool) {
	return a.proxy.method.value, a.proxy.method.set
}

// ProxyBody returns the proxied request body and whether one was set.
func (a *AasDataAddress) ProxyBody() (string, bool) {
	return a.proxy.body.value, a.proxy.body.set
}

// ProxyPath returns the proxied request path suffix and whether one was set.
func (a *AasDataAddress) ProxyPath() (string, bool) {
	return a.proxy.path.value, a.proxy.path.set
}

// Extension returns a property the address does not interpret itself.
func (a *AasDataAddress) Extension(key string) (string, bool) {
	v, ok := a.extensions[key]
	return v, ok
}

// ToDataAddress converts the address into the generic property-bag form. Headers
// of the header source are included, so the result is self-contained.
func (a *AasDataAddress) ToDataAddress() DataAddress {
	props := map[string]any{
		PropertyType:   TypeAasData,
		PropertyMethod: a.Method(),
	}
	if a.baseURL != "" {
		props[PropertyBaseURL] = a.baseURL
	}
	if a.path.set {
		props[PropertyPath] = a.path.value
	}
	if a.reference != "" {
		props[PropertyReferenceChain] = a.reference
	}
	for key, opt := range map[string]optionalString{
		PropertyProxyOperation: a.proxy.operation,
		PropertyProxyMethod:    a.proxy.method,
		PropertyProxyBody:      a.proxy.body,
		PropertyProxyPath:      a.proxy.path,
	} {
		if opt.set {
			props[key] = opt.value
		}
	}
	for name, value := range a.AdditionalHeaders() {
		props[HeaderPrefix+name] = value
	}
	for key, value := range a.extensions {
		props[key] = value
	}
	return DataAddress{Type: TypeAasData, Properties: props}
}

// Properties returns the property-bag view of the address.
func (a *AasDataAddress) Properties() map[string]any {
	return a.ToDataAddress().Properties
}

// HTTPDataAddress is the projection of an AAS data address onto a plain HTTP
// endpoint without AAS semantics.
type HTTPDataAddress struct {
	BaseURL string
	Method  string
	Path    string
	Headers map[string]string
}

// AsHTTPDataAddress resolves the path and returns the plain HTTP view of a.
func (a *AasDataAddress) AsHTTPDataAddress() (HTTPDataAddress, error) {
	path, err := a.Path()
	if err != nil {
		return HTTPDataAddress{}, err
	}
	return HTTPDataAddress{
		BaseURL: a.baseURL,
		Method:  a.Method(),
		Path:    path,
		Headers: a.AdditionalHeaders(),
	}, nil
}

// ToDataAddress converts h into the generic HttpData form.
func (h HTTPDataAddress) ToDataAddress() DataAddress {
	props := map[string]any{
		PropertyType:    TypeHTTPData,
		PropertyBaseURL: h.BaseURL,
		PropertyMethod:  h.Method,
	}
	props[EDCNamespace+"path"] = h.Path
	for name, value := range h.Headers {
		props[httpHeaderPrefix+name] = value
	}
	return DataAddress{Type: TypeHTTPData, Properties: props}
}

// Builder assembles an AasDataAddress. Errors are collected and returned by Build.
type Builder struct {
	address AasDataAddress
	errs    []error
}

// NewBuilder returns a builder with method GET.
func NewBuilder() *Builder {
	return &Builder{address: AasDataAddress{
		method:     http.MethodGet,
		headers:    map[string]string{},
		extensions: map[string]string{},
	}}
}

// FromDataAddress builds an AAS data address from the generic form.
func FromDataAddress(d DataAddress) (*AasDataAddress, error) {
	return NewBuilder().CopyFrom(d).Build()
}

// FromHTTPDataAddress builds an AAS data address from a plain HttpData
// address. Its path and header properties use the HttpData names.
func FromHTTPDataAddress(d DataAddress) (*AasDataAddress, error) {
	b := NewBuilder()
	for _, key := range orderedKeys(d.Properties) {
		value := d.Properties[key]
		if value == nil {
			continue
		}
		switch {
		case key == EDCNamespace+"path":
			b.Path(stringify(value))
		case strings.HasPrefix(key, httpHeaderPrefix):
			b.AdditionalHeader(strings.TrimPrefix(key, httpHeaderPrefix), stringify(value))
		default:
			b.Property(key, stringify(value))
		}
	}
	return b.Build()
}

// ParseAny builds an AAS data address from either an AasData or an HttpData address.
func ParseAny(d DataAddress) (*AasDataAddress, error) {
	if d.Type == TypeHTTPData {
		return FromHTTPDataAddress(d)
	}
	return FromDataAddress(d)
}

// BaseURL sets the base URL of the AAS service.
func (b *Builder) BaseURL(baseURL string) *Builder {
	b.address.baseURL = baseURL
	return b
}

// Method sets the HTTP method.
func (b *Builder) Method(method string) *Builder {
	b.address.method = method
	return b
}

// AdditionalHeader adds one header. The name is stored in canonical form.
func (b *Builder) AdditionalHeader(name, value string) *Builder {
	b.address.headers[http.CanonicalHeaderKey(name)] = value
	return b
}

// AdditionalHeaders adds all given headers.
func (b *Builder) AdditionalHeaders(headers map[string]string) *Builder {
	for name, value := range headers {
		b.AdditionalHeader(name, value)
	}
	return b
}

// Path sets an explicit path. It takes precedence over a reference.
func (b *Builder) Path(path string) *Builder {
	b.address.path = optionalString{value: path, set: true}
	return b
}

// Reference stores ref. A reference that fails validation makes Build fail.
func (b *Builder) Reference(ref *aasref.Reference) *Builder {
	if problems := aasref.Validate(ref); len(problems) > 0 {
		b.errs = append(b.errs, &aasref.MalformedReferenceError{Reference: ref, Problems: problems})
		return b
	}
	serialized, err := aasref.Serialize(ref)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.address.reference = serialized
	return b
}

// ProxyOperation sets the payload of a proxied operation invocation.
func (b *Builder) ProxyOperation(operation string) *Builder {
	b.address.proxy.operation = optionalString{value: operation, set: true}
	return b
}

// ProxyMethod sets the method of a proxied request.
func (b *Builder) ProxyMethod(method string) *Builder {
	b.address.proxy.method = optionalString{value: method, set: true}
	return b
}

// ProxyBody sets the body of a proxied request.
func (b *Builder) ProxyBody(body string) *Builder {
	b.address.proxy.body = optionalString{value: body, set: true}
	return b
}

// ProxyPath sets the path suffix of a proxied request.
func (b *Builder) ProxyPath(path string) *Builder {
	b.address.proxy.path = optionalString{value: path, set: true}
	return b
}

// HeaderSource attaches a source of headers that are applied below the address's own headers.
func (b *Builder) HeaderSource(source HeaderSource) *Builder {
	b.address.headerSource = source
	return b
}

// Provider sets base URL and header source from an AAS provider.
func (b *Builder) Provider(p *provider.Provider) *Builder {
	if p == nil {
		return b
	}
	b.address.baseURL = p.BaseURL()
	b.address.headerSource = p
	return b
}

// Property sets a property by its property-bag key. Well-known keys update the
// typed fields, header keys add headers, anything else is kept as extension.
func (b *Builder) Property(key string, value string) *Builder {
	if name, ok := isHeaderKey(key); ok {
		return b.AdditionalHeader(name, value)
	}

	switch canonicalKey(key) {
	case PropertyType:
		// Build stamps the type.
	case PropertyBaseURL:
		b.BaseURL(value)
	case PropertyMethod:
		b.Method(value)
	case PropertyPath:
		b.Path(value)
	case PropertyReferenceChain:
		ref, err := aasref.ParseReference(value)
		if err != nil {
			b.errs = append(b.errs, err)
			return b
		}
		b.Reference(ref)
	case PropertyProxyOperation:
		b.ProxyOperation(value)
	case PropertyProxyMethod:
		b.ProxyMethod(value)
	case PropertyProxyBody:
		b.ProxyBody(value)
	case PropertyProxyPath:
		b.ProxyPath(value)
	default:
		b.address.extensions[key] = value
	}
	return b
}

// CopyFrom imports all properties of other, which may be of any type. When a
// bag carries both the short and the namespaced key of a property, the
// namespaced one wins.
func (b *Builder) CopyFrom(other DataAddress) *Builder {
	for _, key := range orderedKeys(other.Properties) {
		value := other.Properties[key]
		if value == nil {
			continue
		}
		b.Property(key, stringify(value))
	}
	return b
}

// orderedKeys sorts the keys of props with short property names ahead of
// namespaced ones, so that later namespaced keys override.
func orderedKeys(props map[string]any) []string {
	keys := slices.Collect(maps.Keys(props))
	slices.SortFunc(keys, func(x, y string) int {
		xShort, yShort := canonicalKey(x) != x, canonicalKey(y) != y
		switch {
		case xShort && !yShort:
			return -1
		case !xShort && yShort:
			return 1
		}
		return strings.Compare(x, y)
	})
	return keys
}

// CopyFromAddress imports all properties of another AAS data address. Headers
// of its header source are copied as plain headers; the source itself is not
// attached.
func (b *Builder) CopyFromAddress(other *AasDataAddress) *Builder {
	if other == nil {
		return b
	}
	b.CopyFrom(other.ToDataAddress())
	return b
}

// Build returns the address or the errors recorded while building.
func (b *Builder) Build() (*AasDataAddress, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("AASDA-BUILD-INVALID %w", errors.Join(b.errs...))
	}
	out := b.address
	out.headers = maps.Clone(b.address.headers)
	out.extensions = maps.Clone(b.address.extensions)
	return &out, nil
}
