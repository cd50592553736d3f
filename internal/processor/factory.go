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
	"fmt"
	"net/url"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/provider"
)

// ErrMalformedURL is returned for target URLs that cannot be parsed.
var ErrMalformedURL = common.NewErrBadRequest("AASPROC-URL-MALFORMED")

// ErrUnregisteredService is returned when the target is not a registered AAS service.
var ErrUnregisteredService = common.NewErrBadRequest("AASPROC-FACTORY-UNREGISTERED target is not a registered AAS service")

// ServiceRegistry resolves a URL to the registered provider serving it.
type ServiceRegistry interface {
	Lookup(rawURL string) (*provider.Provider, bool)
}

// Factory hands out processors that share one HTTP client.
type Factory struct {
	client   HTTPClient
	registry ServiceRegistry
	allowAll bool
}

// NewFactory creates a factory. With allowAll false, only URLs known to
// registry get a processor. registry may be nil if allowAll is true.
func NewFactory(client HTTPClient, registry ServiceRegistry, allowAll bool) *Factory {
	return &Factory{client: client, registry: registry, allowAll: allowAll}
}

// ProcessorFor returns a processor for requests to rawURL, together with the
// provider serving it if one is registered.
func (f *Factory) ProcessorFor(rawURL string) (*Processor, *provider.Provider, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, nil, fmt.Errorf("%w %q", ErrMalformedURL, rawURL)
	}

	var registered *provider.Provider
	if f.registry != nil {
		registered, _ = f.registry.Lookup(rawURL)
	}
	if registered == nil && !f.allowAll {
		return nil, nil, ErrUnregisteredService
	}
	return New(f.client), registered, nil
}
