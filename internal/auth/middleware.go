package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Roles known to the API. Reloading and truncating the archive need admin.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

var rolePriority = []string{RoleAdmin, "supervisor", "agent", RoleViewer}

// Claims is the authenticated user attached to a request
type Claims struct {
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Groups []string `json:"groups"`
	jwt.RegisteredClaims
}

type contextKey string

const UserContextKey contextKey = "user"

// Config controls token validation
type Config struct {
	SkipAuth        bool
	OIDCIssuer      string
	VerifySignature bool
}

// Authenticator validates bearer tokens issued by an OIDC provider
type Authenticator struct {
	cfg    Config
	logger zerolog.Logger

	mu   sync.Mutex
	jwks keyfunc.Keyfunc
}

// New creates an Authenticator
func New(cfg Config, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		cfg:    cfg,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// keyfunc returns the JWKS key lookup, fetching the key set on first use
func (a *Authenticator) keyfunc() (jwt.Keyfunc, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.jwks != nil {
		return a.jwks.Keyfunc, nil
	}
	if a.cfg.OIDCIssuer == "" {
		return nil, errors.New("OIDC_ISSUER not configured for JWT verification")
	}

	// Keycloak layout
	jwksURL := strings.TrimSuffix(a.cfg.OIDCIssuer, "/") + "/protocol/openid-connect/certs"
	a.logger.Info().Str("url", jwksURL).Msg("fetching JWKS")

	k, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create keyfunc: %w", err)
	}
	a.jwks = k
	return k.Keyfunc, nil
}

// Middleware validates JWT tokens. Health and metrics stay public.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.SkipAuth {
			ctx := context.WithValue(r.Context(), UserContextKey, &Claims{
				Email:  "dev@monti.local",
				Name:   "Dev User",
				Role:   RoleAdmin,
				Groups: []string{"developers", "monti-admins"},
			})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		tokenString := extractToken(r)
		if tokenString == "" {
			http.Error(w, "Unauthorized: Missing token", http.StatusUnauthorized)
			return
		}

		claims, err := a.validateToken(tokenString)
		if err != nil {
			a.logger.Warn().Err(err).Msg("token validation failed")
			http.Error(w, fmt.Sprintf("Unauthorized: %v", err), http.StatusUnauthorized)
			return
		}

		a.logger.Debug().Str("email", claims.Email).Str("role", claims.Role).Msg("user authenticated")

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated users without the given role
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserFromContext(r.Context())
			if !ok || !HasRole(claims, role) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return strings.TrimSpace(tokenString)
}

func (a *Authenticator) validateToken(tokenString string) (*Claims, error) {
	var token *jwt.Token
	var err error

	if a.cfg.VerifySignature {
		kf, kerr := a.keyfunc()
		if kerr != nil {
			return nil, kerr
		}
		token, err = jwt.Parse(tokenString, kf, jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"}))
		if err != nil {
			return nil, fmt.Errorf("token verification failed: %w", err)
		}
		if !token.Valid {
			return nil, errors.New("invalid token")
		}
	} else {
		token, _, err = jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	claims := &Claims{
		Role:   extractRole(mapClaims),
		Groups: extractGroups(mapClaims),
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := mapClaims["name"].(string); ok {
		claims.Name = name
	} else if preferredUsername, ok := mapClaims["preferred_username"].(string); ok {
		claims.Name = preferredUsername
	}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}

	// Verified tokens had exp checked by jwt.Parse.
	if !a.cfg.VerifySignature {
		if exp, ok := mapClaims["exp"].(float64); ok {
			expTime := time.Unix(int64(exp), 0)
			claims.ExpiresAt = jwt.NewNumericDate(expTime)
			if expTime.Before(time.Now()) {
				return nil, errors.New("token expired")
			}
		}
	}

	return claims, nil
}

// extractRole reads the highest role from Keycloak realm roles, falling
// back to Cognito style group claims
func extractRole(mapClaims jwt.MapClaims) string {
	if realmAccess, ok := mapClaims["realm_access"].(map[string]interface{}); ok {
		roles := stringList(realmAccess["roles"])
		for _, priority := range rolePriority {
			for _, role := range roles {
				if role == priority {
					return role
				}
			}
		}
	}

	for _, claim := range []string{"cognito:groups", "custom:groups"} {
		for _, group := range stringList(mapClaims[claim]) {
			for _, priority := range rolePriority[:3] {
				if strings.Contains(group, priority) {
					return priority
				}
			}
		}
	}

	return RoleViewer
}

func extractGroups(mapClaims jwt.MapClaims) []string {
	groups := stringList(mapClaims["groups"])
	return append(groups, stringList(mapClaims["cognito:groups"])...)
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetUserFromContext retrieves user claims from request context
func GetUserFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	return claims, ok
}

// HasRole checks if user has specific role
func HasRole(claims *Claims, role string) bool {
	return claims.Role == role
}
