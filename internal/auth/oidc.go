// Package auth protects the flow management API with OpenID Connect bearer tokens.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common/logger"
	"github.com/coreos/go-oidc"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

type OIDC struct {
	verifier       *oidc.IDTokenVerifier
	requiredScopes []string
}

// NewOIDC discovers the issuer of cfg and creates a verifier for its tokens.
func NewOIDC(ctx context.Context, cfg common.OIDCConfig) (*OIDC, error) {
	logger.LogInfo("🔐 Initializing OIDC verifier...")
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, common.NewErrServiceUnavailable("AUTH-NEWOIDC-DISCOVERY " + err.Error())
	}
	v := provider.Verifier(&oidc.Config{
		ClientID: cfg.Audience,
	})
	logger.LogInfo("✅ OIDC verifier created. Issuer=" + cfg.Issuer + " Audience=" + cfg.Audience)
	return NewOIDCWithVerifier(v, cfg.Scopes), nil
}

// NewOIDCWithVerifier uses an existing verifier. Tokens must carry all requiredScopes.
func NewOIDCWithVerifier(v *oidc.IDTokenVerifier, requiredScopes []string) *OIDC {
	return &OIDC{verifier: v, requiredScopes: requiredScopes}
}

type Claims map[string]any

type ctxKey string

const claimsKey ctxKey = "jwtClaims"

func FromContext(r *http.Request) Claims {
	if v := r.Context().Value(claimsKey); v != nil {
		if c, ok := v.(Claims); ok {
			return c
		}
	}
	return nil
}

func (o *OIDC) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "AUTH-MIDDLEWARE-MISSINGTOKEN missing or invalid Authorization header")
			return
		}
		raw := strings.TrimPrefix(authz, "Bearer ")

		idToken, err := o.verifier.Verify(r.Context(), raw)
		if err != nil {
			logger.LogWarning("❌ Token verification failed: " + err.Error())
			writeError(w, http.StatusUnauthorized, "AUTH-MIDDLEWARE-INVALIDTOKEN invalid token")
			return
		}
		var rm json.RawMessage
		if err := idToken.Claims(&rm); err != nil {
			writeError(w, http.StatusUnauthorized, "AUTH-MIDDLEWARE-INVALIDCLAIMS invalid claims")
			return
		}

		dec := json.NewDecoder(bytes.NewReader(rm))
		dec.UseNumber()

		var c Claims
		if err := dec.Decode(&c); err != nil {
			logger.LogWarning("❌ Failed to parse claims: " + err.Error())
			writeError(w, http.StatusUnauthorized, "AUTH-MIDDLEWARE-INVALIDCLAIMS invalid claims")
			return
		}

		if typ, _ := c.GetString("typ"); typ != "" && !strings.EqualFold(typ, "Bearer") {
			logger.LogWarning("❌ unexpected token typ: " + strconv.Quote(typ))
			writeError(w, http.StatusUnauthorized, "AUTH-MIDDLEWARE-TOKENTYPE invalid token type")
			return
		}

		if !hasAllScopes(c, o.requiredScopes) {
			logger.LogWarning("❌ missing required scopes: " + strings.Join(o.requiredScopes, " "))
			writeError(w, http.StatusForbidden, "AUTH-MIDDLEWARE-SCOPE insufficient scope")
			return
		}

		logger.LogDebug("token verified for subject " + idToken.Subject)
		ctx := context.WithValue(r.Context(), claimsKey, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c Claims) GetString(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func hasAllScopes(c Claims, need []string) bool {
	s, _ := c.GetString("scope")
	have := map[string]struct{}{}
	for _, sc := range strings.Fields(s) {
		have[sc] = struct{}{}
	}
	for _, n := range need {
		if _, ok := have[n]; !ok {
			return false
		}
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	body := map[string]any{
		"messages": []*common.ErrorHandler{common.NewErrorHandler("Warning", errors.New(message), strconv.Itoa(status), uuid.NewString(), common.GetCurrentTimestamp())},
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_ = jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode(body)
}
