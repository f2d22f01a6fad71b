// verifier.go - Google ID token verification with a short lived cache so a
// burst of uploads from the same client does not hit the certs endpoint on
// every request.

package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
)

// ContextUserKey is the gin context key the middleware stores the verified
// user ID (token subject) under.
const ContextUserKey = "auth_user_id"

const cacheTTL = 5 * time.Minute

type cachedToken struct {
	userID    string
	expiresAt time.Time
}

// Verifier validates Google ID tokens against a configured audience.
type Verifier struct {
	audience string

	mu    sync.RWMutex
	cache map[string]cachedToken

	// validate is swapped in tests.
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewVerifier builds a verifier for the given audience.
func NewVerifier(audience string) *Verifier {
	return &Verifier{
		audience: audience,
		cache:    make(map[string]cachedToken),
		validate: idtoken.Validate,
	}
}

// Verify checks a bearer token and returns the user ID it belongs to.
func (v *Verifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("empty token")
	}

	v.mu.RLock()
	cached, ok := v.cache[token]
	v.mu.RUnlock()
	if ok && time.Now().Before(cached.expiresAt) {
		return cached.userID, nil
	}

	payload, err := v.validate(ctx, token, v.audience)
	if err != nil {
		return "", fmt.Errorf("token validation: %w", err)
	}

	userID := payload.Subject
	if email, ok := payload.Claims["email"].(string); ok && email != "" {
		userID = email
	}

	expiry := time.Now().Add(cacheTTL)
	if payload.Expires > 0 {
		if tokenExpiry := time.Unix(payload.Expires, 0); tokenExpiry.Before(expiry) {
			expiry = tokenExpiry
		}
	}

	v.mu.Lock()
	v.cache[token] = cachedToken{userID: userID, expiresAt: expiry}
	if len(v.cache) > 1000 {
		v.evictExpiredLocked()
	}
	v.mu.Unlock()

	return userID, nil
}

// evictExpiredLocked drops stale entries. Caller holds the write lock.
func (v *Verifier) evictExpiredLocked() {
	now := time.Now()
	for token, entry := range v.cache {
		if now.After(entry.expiresAt) {
			delete(v.cache, token)
		}
	}
}

// Middleware rejects requests without a valid Bearer token and stores the
// user ID on the gin context for handlers downstream.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed Authorization header"})
			return
		}

		userID, err := v.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			log.Printf("⚠️  auth rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// UserID reads the verified user ID the middleware stored on the context.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}
