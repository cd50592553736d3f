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

//go:build unit

package common

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8282, cfg.Server.Port)
	assert.True(t, cfg.DataPlane.AasEnabled)
	assert.False(t, cfg.DataPlane.AllowAll)
	assert.Equal(t, 30, cfg.HTTPClient.TimeoutSeconds)
	assert.Equal(t, 3, cfg.HTTPClient.MaxRetries)
	assert.Empty(t, cfg.Providers)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9000
  contextPath: /dp
dataplane:
  aasEnabled: false
providers:
  - url: https://aas.example.com/api/v3.0
    auth:
      type: apikey
      keyName: x-api-key
      keyValue: secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/dp", cfg.Server.ContextPath)
	assert.False(t, cfg.DataPlane.AasEnabled)
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "apikey", cfg.Providers[0].Auth.Type)
	assert.Equal(t, "secret", cfg.Providers[0].Auth.KeyValue)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8282},
			HTTPClient: HTTPClientConfig{
				TimeoutSeconds:      1,
				RetryInitialMillis:  1,
				Burst:               1,
				BreakerFailures:     1,
				BreakerOpenSeconds:  1,
				MaxIdleConnsPerHost: 1,
			},
		}
	}

	require.NoError(t, ValidateConfig(valid()))

	badPort := valid()
	badPort.Server.Port = 0
	err := ValidateConfig(badPort)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Server.Port")

	badProvider := valid()
	badProvider.Providers = []ProviderConfig{{URL: "not a url"}, {URL: "https://x.example.com", Auth: ProviderAuthConfig{Type: "basic"}}}
	err = ValidateConfig(badProvider)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG-VALIDATE-INVALIDFIELDS")
	assert.Contains(t, err.Error(), "Config.Providers[0].URL")
	assert.Contains(t, err.Error(), "Config.Providers[1].Auth.Username")
}

func TestStatusCodeOf(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{err: nil, expected: http.StatusOK},
		{err: NewErrBadRequest("x"), expected: http.StatusBadRequest},
		{err: NewErrNotFound("x"), expected: http.StatusNotFound},
		{err: NewErrBadGateway("x"), expected: http.StatusBadGateway},
		{err: NewErrServiceUnavailable("x"), expected: http.StatusServiceUnavailable},
		{err: NewInternalServerError("x"), expected: http.StatusInternalServerError},
		{err: os.ErrNotExist, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StatusCodeOf(tt.err), "%v", tt.err)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(NewErrBadRequest("missing flow id"), "DATAPLANE-GETFLOW-MISSINGID")

	assert.Equal(t, "Warning", resp.MessageType)
	assert.Equal(t, "400 Bad Request: missing flow id", resp.Text)
	assert.Equal(t, "DATAPLANE-GETFLOW-MISSINGID", resp.Code)
	assert.Len(t, resp.CorrelationId, 36)
	assert.NotEmpty(t, resp.Timestamp)

	assert.Equal(t, "Error", NewErrorResponse(NewErrBadGateway("down"), "").MessageType)
}
