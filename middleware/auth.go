package middleware

import (
	"github.com/AllanSJoseph/AlgoHub/logging/logger"
	"github.com/AllanSJoseph/AlgoHub/net/cookie"
	"github.com/AllanSJoseph/AlgoHub/net/resp"
	"github.com/AllanSJoseph/AlgoHub/service"
	"github.com/AllanSJoseph/AlgoHub/structs"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Auth validates the session token from the cookie and stores the resulting
// identity in the request context.
func Auth(authService *service.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := cookie.GetToken(c.Request)
		if err != nil || token == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("unauthorized"))
			c.Abort()
			return
		}

		identity, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			log.Warn(c.Request.Context(), "token rejected", "error", err)
			resp.Fail(c.Writer, resp.UnAuthorized("invalid token"))
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole authorizes the request against the role claim of the validated
// identity.
func RequireRole(roles ...structs.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			resp.Fail(c.Writer, resp.UnAuthorized("unauthorized"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		resp.Fail(c.Writer, resp.Forbidden("insufficient permissions"))
		c.Abort()
	}
}

// GetIdentity retrieves the validated identity from the request context.
func GetIdentity(c *gin.Context) (*structs.Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := val.(*structs.Identity)
	return identity, ok
}
