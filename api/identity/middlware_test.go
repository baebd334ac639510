package identity

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubTokens map[string]map[string]any

func (s stubTokens) Generate(map[string]any, time.Duration) (string, error) {
	return "", errors.New("not implemented")
}

func (s stubTokens) Decode(token string) (map[string]any, error) {
	claims, ok := s[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func TestAuthoriz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := stubTokens{
		"operator": {OperatorClaim: "bench"},
		"viewer":   {"sub": "someone"},
	}

	router := gin.New()
	router.GET("/", Authoriz(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextOperator))
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"basic auth", "Basic operator", http.StatusUnauthorized, ""},
		{"only bearer", "Bearer", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer forged", http.StatusUnauthorized, ""},
		{"no operator claim", "Bearer viewer", http.StatusForbidden, ""},
		{"operator", "Bearer operator", http.StatusOK, "bench"},
		{"lower case scheme", "bearer operator", http.StatusOK, "bench"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}
