package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-oidc"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://issuer.example.com/realms/dataplane"

// payloadKeySet accepts every token and returns its payload.
type payloadKeySet struct{}

func (payloadKeySet) VerifySignature(_ context.Context, jwt string) ([]byte, error) {
	parts := strings.Split(jwt, ".")
	if len(parts) != 3 {
		return nil, errors.New("malformed jwt")
	}
	return base64.RawURLEncoding.DecodeString(parts[1])
}

func token(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := jsoniter.Marshal(claims)
	require.NoError(t, err)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString([]byte("sig"))
}

func newTestOIDC(scopes ...string) *OIDC {
	v := oidc.NewVerifier(testIssuer, payloadKeySet{}, &oidc.Config{ClientID: "aas-dataplane"})
	return NewOIDCWithVerifier(v, scopes)
}

func validClaims() map[string]any {
	return map[string]any{
		"iss":   testIssuer,
		"aud":   "aas-dataplane",
		"sub":   "control-plane",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"scope": "profile flows",
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	wrongAudience := validClaims()
	wrongAudience["aud"] = "someone-else"
	idToken := validClaims()
	idToken["typ"] = "ID"

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "Valid", header: "Bearer " + token(t, validClaims()), status: http.StatusOK},
		{name: "MissingHeader", header: "", status: http.StatusUnauthorized},
		{name: "BasicScheme", header: "Basic dXNlcjpwYXNz", status: http.StatusUnauthorized},
		{name: "Garbage", header: "Bearer not-a-token", status: http.StatusUnauthorized},
		{name: "Expired", header: "Bearer " + token(t, expired), status: http.StatusUnauthorized},
		{name: "WrongAudience", header: "Bearer " + token(t, wrongAudience), status: http.StatusUnauthorized},
		{name: "WrongTokenType", header: "Bearer " + token(t, idToken), status: http.StatusUnauthorized},
	}

	var subject string
	handler := newTestOIDC("flows").Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = FromContext(r).GetString("sub")
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/flows", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"messages"`)
				assert.Contains(t, rec.Body.String(), "AUTH-MIDDLEWARE-")
			}
		})
	}
	assert.Equal(t, "control-plane", subject)
}

func TestMiddlewareRequiresScopes(t *testing.T) {
	t.Parallel()

	handler := newTestOIDC("flows", "admin").Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/flows", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, validClaims()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH-MIDDLEWARE-SCOPE")
}

func TestFromContextWithoutClaims(t *testing.T) {
	t.Parallel()
	assert.Nil(t, FromContext(httptest.NewRequest(http.MethodGet, "/", nil)))
}
