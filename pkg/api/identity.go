package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal identifies the caller of a request. The engine treats both
// fields as opaque strings used only to stamp audit records.
type Principal struct {
	UserID        string
	CorrelationID string
}

type principalKey struct{}

// GetPrincipal returns the principal attached to the context, if any.
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// WithPrincipal attaches a principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// engineClaims are the JWT claims this engine reads.
type engineClaims struct {
	jwt.RegisteredClaims
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Identity extracts the caller's principal from an optional HMAC-signed
// bearer token. Anonymous requests are allowed: they get userId
// "anonymous" and a fresh correlation id. An invalid token is rejected,
// since a caller presenting credentials must present valid ones.
type Identity struct {
	secret []byte
}

// NewIdentity builds the middleware. An empty secret disables token
// parsing entirely; everyone is anonymous.
func NewIdentity(secret string) *Identity {
	if secret == "" {
		return &Identity{}
	}
	return &Identity{secret: []byte(secret)}
}

// Middleware resolves the principal and stores it on the request context.
func (i *Identity) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := i.resolve(r)
		if err != nil {
			WriteError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func (i *Identity) resolve(r *http.Request) (*Principal, error) {
	anon := &Principal{UserID: "anonymous", CorrelationID: uuid.New().String()}

	header := r.Header.Get("Authorization")
	if len(i.secret) == 0 || header == "" {
		return anon, nil
	}

	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, fmt.Errorf("authorization header is not a bearer token")
	}

	claims := &engineClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	p := &Principal{UserID: claims.Subject, CorrelationID: claims.CorrelationID}
	if p.UserID == "" {
		p.UserID = "anonymous"
	}
	if p.CorrelationID == "" {
		p.CorrelationID = uuid.New().String()
	}
	return p, nil
}
