package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mlazarev/taskman/internal/models"
)

const callerCtxKey = "caller"

// HandleAuthMiddleware resolves the caller from the bearer token and
// loads the full user record into the request context.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	email, err := h.auth.ParseToken(parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	caller, err := h.users.GetByEmail(c, email)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("email", email).
			Msg("token subject no longer exists")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(callerCtxKey, caller)
	c.Next()
}

func callerFromContext(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(callerCtxKey)
	if !exists {
		return nil, false
	}
	caller, ok := value.(*models.User)
	return caller, ok
}

// mustCaller aborts with 401 when the middleware did not run.
func (h *handlerImpl) mustCaller(c *gin.Context) (*models.User, bool) {
	caller, ok := callerFromContext(c)
	if !ok {
		h.logger.Error().Msg("no caller found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return nil, false
	}
	return caller, true
}
