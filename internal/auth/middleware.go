package auth

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	OwnerID string
	Role    Role
}

// Middleware resolves the caller from a Supabase-style access token and
// enforces the route policy before any lot data is read.
type Middleware struct {
	secret []byte
	policy Policy
	logger logrus.FieldLogger
}

// MiddlewareOption configures the auth middleware.
type MiddlewareOption func(*Middleware)

// WithRejectLogger logs rejected requests at debug level.
func WithRejectLogger(logger logrus.FieldLogger) MiddlewareOption {
	return func(m *Middleware) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMiddleware constructs an auth middleware.
func NewMiddleware(secret []byte, policy Policy, opts ...MiddlewareOption) *Middleware {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	m := &Middleware{secret: secret, policy: policy, logger: discard}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Authenticate resolves the identity behind the request's bearer token.
// Tokens without app_role belong to viewers.
func (m *Middleware) Authenticate(r *http.Request) (Identity, error) {
	token := bearerToken(r)
	if token == "" {
		return Identity{}, ErrUnauthorized
	}
	claims, err := ParseJWT(token, m.secret)
	if err != nil {
		return Identity{}, err
	}
	role := RoleViewer
	if claims.Role != "" {
		role = Role(claims.Role)
	}
	return Identity{OwnerID: claims.Subject, Role: role}, nil
}

// Wrap applies authentication and role checks to the handler. Downstream
// handlers read the owner from the context to scope lot access.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.policy.IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		required, guarded := m.policy.RequiredRole(r)
		if !guarded {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.Authenticate(r)
		if err != nil {
			m.reject(w, r, err)
			return
		}
		if !RoleAtLeast(identity.Role, required) {
			m.reject(w, r, ErrForbidden)
			return
		}
		ctx := WithIdentity(r.Context(), identity.OwnerID, identity.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.WithField("path", r.URL.Path).Debugf("auth rejected: %v", err)
	switch {
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", `Bearer realm="winery", error="invalid_token"`)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	default:
		w.Header().Set("WWW-Authenticate", `Bearer realm="winery"`)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
}

func bearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
