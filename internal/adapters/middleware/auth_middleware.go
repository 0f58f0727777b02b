package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// cacheEntry stores cached JWT claims keyed by JTI (JWT ID)
type cacheEntry struct {
	claims jwt.MapClaims
	exp    int64
}

// AuthMiddleware validates JWTs issued by the facility's identity
// provider against a mounted RSA public key, with a JTI-keyed claims
// cache in front of the RSA verification.
//
// When no public key is configured the middleware passes every request
// through; the pilot deployment runs the demo email login without an
// identity provider.
type AuthMiddleware struct {
	publicKey   *rsa.PublicKey
	cache       sync.Map
	janitorStop chan bool
}

const CacheCleanupInterval = 10 * time.Minute

// NewAuthMiddleware creates a new JWT authentication middleware.
// publicKey may be nil, disabling enforcement.
func NewAuthMiddleware(publicKey *rsa.PublicKey) *AuthMiddleware {
	m := &AuthMiddleware{
		publicKey:   publicKey,
		janitorStop: make(chan bool),
	}

	go m.startJanitor(CacheCleanupInterval)

	return m
}

// Context keys for storing authenticated worker information
type contextKey string

const (
	WorkerIDKey    contextKey = "workerID"
	RoleKey        contextKey = "role"
	TokenKey       contextKey = "token"
	WorkerEmailKey contextKey = "workerEmail"
)

// claimsFromCacheOrParse extracts claims from the cache or runs the
// full RSA verification. The JTI is peeked without verifying first so
// the hot path skips RSA entirely.
func (m *AuthMiddleware) claimsFromCacheOrParse(tokenString string) (jwt.MapClaims, string, error) {
	parser := new(jwt.Parser)
	unverifiedToken, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, "", err
	}

	claims, ok := unverifiedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", errors.New("invalid token claims")
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		// Tokens should always carry a JTI; fall back to a composite key
		role, _ := claims["role"].(string)
		sub, _ := claims["sub"].(string)
		jti = fmt.Sprintf("%s-%s-%s", tokenString[:min(20, len(tokenString))], role, sub[:min(8, len(sub))])
	}

	var exp int64
	if expFloat, ok := claims["exp"].(float64); ok {
		exp = int64(expFloat)
	} else if expInt, ok := claims["exp"].(int64); ok {
		exp = expInt
	} else {
		return nil, "", errors.New("missing expiration claim")
	}

	if time.Now().Unix() > exp {
		return nil, "", errors.New("token expired")
	}

	if entry, ok := m.cache.Load(jti); ok {
		cached := entry.(cacheEntry)
		if time.Now().Unix() < cached.exp {
			return cached.claims, jti, nil
		}
		m.cache.Delete(jti)
	}

	// Cold path: full RSA validation
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.publicKey, nil
	})

	if err != nil {
		return nil, "", err
	}

	if !token.Valid {
		return nil, "", jwt.ErrSignatureInvalid
	}

	verifiedClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", errors.New("invalid token claims")
	}

	m.cache.Store(jti, cacheEntry{claims: verifiedClaims, exp: exp})

	return verifiedClaims, jti, nil
}

// RequireAuth validates the Bearer token from the Authorization header
// and adds the worker's identity to the request context. Requests pass
// through untouched when no public key is configured.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.publicKey == nil {
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("Missing Authorization header")
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("Invalid Authorization header format")
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}
			tokenString = parts[1]
		}

		claims, jti, err := m.claimsFromCacheOrParse(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		workerID, ok := claims["sub"].(string)
		if !ok || workerID == "" {
			log.Printf("Missing or invalid 'sub' claim (JTI: %s)", jti)
			http.Error(w, "invalid token: missing worker ID", http.StatusUnauthorized)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role == "" {
			log.Printf("Missing or invalid 'role' claim (JTI: %s)", jti)
			http.Error(w, "invalid token: missing role", http.StatusUnauthorized)
			return
		}

		email, _ := claims["email"].(string)

		ctx := context.WithValue(r.Context(), WorkerIDKey, workerID)
		ctx = context.WithValue(ctx, RoleKey, role)
		ctx = context.WithValue(ctx, TokenKey, tokenString)
		ctx = context.WithValue(ctx, WorkerEmailKey, email)

		next(w, r.WithContext(ctx))
	}
}

// RequireRole enforces role-based access control on top of RequireAuth.
// With no public key configured the role check is skipped along with
// authentication.
func (m *AuthMiddleware) RequireRole(requiredRole string, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if m.publicKey == nil {
			next(w, r)
			return
		}

		role, ok := GetRole(r.Context())
		if !ok {
			log.Printf("Missing role in context")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if role != requiredRole {
			log.Printf("Role mismatch: required %s, got %s", requiredRole, role)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next(w, r)
	})
}

// startJanitor periodically cleans up expired cache entries
func (m *AuthMiddleware) startJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now().Unix()
			deleted := 0
			m.cache.Range(func(key, value interface{}) bool {
				if entry, ok := value.(cacheEntry); ok && now >= entry.exp {
					m.cache.Delete(key)
					deleted++
				}
				return true
			})
			if deleted > 0 {
				log.Printf("Claims cache janitor: purged %d expired entries", deleted)
			}
		case <-m.janitorStop:
			return
		}
	}
}

// Stop stops the background janitor (for graceful shutdown)
func (m *AuthMiddleware) Stop() {
	close(m.janitorStop)
}

// GetWorkerID extracts the authenticated worker ID from request context
func GetWorkerID(ctx context.Context) (string, bool) {
	workerID, ok := ctx.Value(WorkerIDKey).(string)
	return workerID, ok
}

// GetRole extracts the role from request context
func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// GetWorkerEmail extracts the worker email from request context
func GetWorkerEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(WorkerEmailKey).(string)
	return email, ok
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
