package auth

import (
	"strings"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/identity"
	"portfolio_backend/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Header fallbacks for profile names missing from the session claims.
const (
	HeaderFirstName = "x-user-first-name"
	HeaderLastName  = "x-user-last-name"
)

// Handler serves the identity synchronization endpoint.
type Handler struct {
	reconciler *Reconciler
	logger     *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(reconciler *Reconciler, logger *zap.Logger) *Handler {
	return &Handler{reconciler: reconciler, logger: logger}
}

// RegisterRoutes mounts POST /auth/sync behind guard.
func (h *Handler) RegisterRoutes(router gin.IRouter, guard gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	authGroup.POST("/sync", guard, h.sync)
}

func (h *Handler) sync(c *gin.Context) {
	claims, ok := identity.FromContext(c.Request.Context())
	if !ok || claims.ExternalID == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	fallback := Fallback{
		FirstName: headerValue(c, HeaderFirstName),
		LastName:  headerValue(c, HeaderLastName),
	}

	u, _, err := h.reconciler.Reconcile(c.Request.Context(), claims, fallback)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, user.ToUserResponse(u))
}

func headerValue(c *gin.Context, name string) *string {
	v := strings.TrimSpace(c.GetHeader(name))
	if v == "" {
		return nil
	}
	return &v
}
