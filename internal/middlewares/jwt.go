package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	a "github.com/you/campus-market/pkg/auth"
)

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		tok := strings.TrimPrefix(h, "Bearer ")
		claims, err := a.ParseValidate(tok)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set("sub", claims.Sub)
		c.Set("name", claims.Name)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// Actor returns the authenticated user id set by JWTAuth.
func Actor(c *gin.Context) string {
	v, _ := c.Get("sub")
	sub, _ := v.(string)
	return sub
}
