package middleware

import (
	"net/http"
	"strings"

	"github.com/Joe-Bills/moto-spares-manager/internal/apierror"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"

	// TokenTypeAccess is the only "typ" accepted on protected routes.
	TokenTypeAccess = "access"
)

// JWTClaims are the custom claims embedded in every token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Typ      string `json:"typ"`
	jwt.RegisteredClaims
}

// Privileged reports whether the caller may perform admin-only operations.
func (c *JWTClaims) Privileged() bool { return model.IsPrivilegedRole(c.Role) }

// JWTAuth validates the Bearer token on every protected route. Refresh
// tokens are rejected here; they are only good for POST /v1/auth/refresh.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentication credentials were not provided."))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid || claims.Typ != TokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Given token not valid for any token type"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequirePrivileged rejects callers that are neither superuser nor admin.
func RequirePrivileged() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !claims.Privileged() {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("You do not have permission to perform this action."))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
// It returns nil on unauthenticated routes.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
