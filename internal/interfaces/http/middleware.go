package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/expense-service/internal/domain/expense"
)

const actorContextKey = "actor"

// actorMiddleware resolves the acting identity from request headers.
// Authentication happens upstream; this adapter only consumes the resolved
// identity and rejects requests that carry none.
func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.GetHeader("X-Actor-ID")
		email := c.GetHeader("X-Actor-Email")
		role := c.GetHeader("X-Actor-Role")

		if idStr == "" || email == "" || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing actor identity headers",
			})
			return
		}

		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid actor id",
			})
			return
		}

		c.Set(actorContextKey, expense.Actor{
			ID:    id,
			Email: email,
			Role:  expense.Role(role),
		})
		c.Next()
	}
}

// currentActor retrieves the actor placed by actorMiddleware
func currentActor(c *gin.Context) expense.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(expense.Actor); ok {
			return actor
		}
	}
	return expense.Actor{}
}
