package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beka-birhanu/vinom-nav/service/i"
)

const (
	// ContextOperatorClaims is the key used to store token claims in the Gin context.
	ContextOperatorClaims = "operatorClaims"
	// ContextOperator is the key of the operator name in the Gin context.
	ContextOperator = "operator"

	// OperatorClaim names the party allowed to drive runs.
	OperatorClaim = "operator"
)

// Authoriz accepts requests carrying a bearer token with an operator claim.
func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := ts.Decode(parts[1])
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		operator, _ := claims[OperatorClaim].(string)
		if operator == "" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(ContextOperatorClaims, claims)
		c.Set(ContextOperator, operator)
		c.Next()
	}
}
