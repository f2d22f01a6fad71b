package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestVerifier(validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)) *Verifier {
	v := NewVerifier("test-audience")
	v.validate = validate
	return v
}

func TestVerifyValidToken(t *testing.T) {
	calls := 0
	v := newTestVerifier(func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		calls++
		assert.Equal(t, "test-audience", audience)
		return &idtoken.Payload{
			Subject: "sub-123",
			Expires: time.Now().Add(time.Hour).Unix(),
			Claims:  map[string]interface{}{"email": "chef@example.com"},
		}, nil
	})

	userID, err := v.Verify(context.Background(), "token-a")
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", userID)
	assert.Equal(t, 1, calls)
}

func TestVerifyCachesToken(t *testing.T) {
	calls := 0
	v := newTestVerifier(func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		calls++
		return &idtoken.Payload{
			Subject: "sub-123",
			Expires: time.Now().Add(time.Hour).Unix(),
		}, nil
	})

	_, err := v.Verify(context.Background(), "token-a")
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), "token-a")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestVerifyInvalidToken(t *testing.T) {
	v := newTestVerifier(func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		return nil, errors.New("signature mismatch")
	})

	_, err := v.Verify(context.Background(), "bad-token")
	assert.Error(t, err)
}

func TestVerifyEmptyToken(t *testing.T) {
	v := newTestVerifier(nil)

	_, err := v.Verify(context.Background(), "")
	assert.Error(t, err)
}

func TestMiddlewareMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := newTestVerifier(func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		t.Fatal("validate must not be called without a header")
		return nil, nil
	})

	router := gin.New()
	router.GET("/protected", v.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := newTestVerifier(nil)

	router := gin.New()
	router.GET("/protected", v.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewarePassesUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := newTestVerifier(func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Subject: "sub-456", Expires: time.Now().Add(time.Hour).Unix()}, nil
	})

	var gotUserID string
	router := gin.New()
	router.GET("/protected", v.Middleware(), func(c *gin.Context) {
		gotUserID = UserID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sub-456", gotUserID)
}
