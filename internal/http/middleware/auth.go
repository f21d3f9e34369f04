// README: Auth middleware (stub; identity is asserted by the gateway upstream).
package middleware

import "github.com/gin-gonic/gin"

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
