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

// Package provider describes AAS services (repositories or registries) the data
// plane talks to, together with the credentials needed to reach them.
package provider

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
)

// AuthenticationMethod yields the header that authenticates a request against an AAS service.
type AuthenticationMethod interface {
	// Header returns the header name and value. ok is false if no header is needed.
	Header() (name string, value string, ok bool)
}

// NoAuth adds no header.
type NoAuth struct{}

// Header implements AuthenticationMethod.
func (NoAuth) Header() (string, string, bool) { return "", "", false }

// BasicAuth authenticates with RFC 7617 basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Header implements AuthenticationMethod.
func (b BasicAuth) Header() (string, string, bool) {
	credentials := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Password))
	return "Authorization", "Basic " + credentials, true
}

// APIKey sends a static key in a custom header, e.g. (x-api-key, secret).
type APIKey struct {
	KeyName  string
	KeyValue string
}

// Header implements AuthenticationMethod.
func (a APIKey) Header() (string, string, bool) {
	return a.KeyName, a.KeyValue, a.KeyName != ""
}

// Provider is an AAS service reachable under a base URL.
type Provider struct {
	baseURL *url.URL
	auth    AuthenticationMethod
}

// New creates a provider for rawURL. A nil auth means NoAuth.
func New(rawURL string, auth AuthenticationMethod) (*Provider, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("PROVIDER-NEW-MALFORMEDURL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("PROVIDER-NEW-BADSCHEME %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return nil, errors.New("PROVIDER-NEW-NOHOST " + rawURL)
	}
	if auth == nil {
		auth = NoAuth{}
	}
	return &Provider{baseURL: u, auth: auth}, nil
}

// BaseURL returns the provider URL without trailing slash.
func (p *Provider) BaseURL() string {
	return strings.TrimRight(p.baseURL.String(), "/")
}

// Headers returns the headers every request to this provider carries.
func (p *Provider) Headers() map[string]string {
	headers := map[string]string{}
	if name, value, ok := p.auth.Header(); ok {
		headers[name] = value
	}
	return headers
}

// SameService reports whether p and other point at the same service, ignoring
// case of scheme and host and a trailing slash.
func (p *Provider) SameService(other *Provider) bool {
	if other == nil {
		return false
	}
	return NormalizeURL(p.baseURL.String()) == NormalizeURL(other.baseURL.String())
}

// NormalizeURL lower-cases scheme and host and strips a trailing slash, so that
// URLs pointing at the same AAS service compare equal.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.TrimRight(rawURL, "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String()
}

// FromConfig creates a provider from its configuration entry.
func FromConfig(cfg common.ProviderConfig) (*Provider, error) {
	var auth AuthenticationMethod
	switch strings.ToLower(cfg.Auth.Type) {
	case "", "none":
		auth = NoAuth{}
	case "basic":
		auth = BasicAuth{Username: cfg.Auth.Username, Password: cfg.Auth.Password}
	case "apikey":
		auth = APIKey{KeyName: cfg.Auth.KeyName, KeyValue: cfg.Auth.KeyValue}
	default:
		return nil, fmt.Errorf("PROVIDER-FROMCONFIG-UNKNOWNAUTH %q", cfg.Auth.Type)
	}
	return New(cfg.URL, auth)
}

// Registry holds the configured providers and looks them up by URL.
type Registry struct {
	providers []*Provider
}

// NewRegistry creates providers for all configuration entries.
func NewRegistry(cfgs []common.ProviderConfig) (*Registry, error) {
	r := &Registry{}
	for _, cfg := range cfgs {
		p, err := FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		r.providers = append(r.providers, p)
	}
	return r, nil
}

// All returns the registered providers in configuration order.
func (r *Registry) All() []*Provider {
	return append([]*Provider(nil), r.providers...)
}

// Lookup returns the provider whose base URL prefixes rawURL.
func (r *Registry) Lookup(rawURL string) (*Provider, bool) {
	normalized := NormalizeURL(rawURL)
	for _, p := range r.providers {
		base := NormalizeURL(p.BaseURL())
		if normalized == base || strings.HasPrefix(normalized, base+"/") {
			return p, true
		}
	}
	return nil, false
}
