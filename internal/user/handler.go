package user

import (
	"errors"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts /users. Reads are public except /me; writes require authMW.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW gin.HandlerFunc) {
	users := router.Group("/users")
	users.GET("", h.list)
	users.GET("/me", authMW, h.getMe)
	users.GET("/:id", h.getByID)
	users.POST("", authMW, h.create)
	users.PATCH("/:id", authMW, h.update)
	users.DELETE("/:id", authMW, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	users, pagination, err := h.service.List(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	common.RespondPaginated(c, out, pagination)
}

func (h *Handler) getMe(c *gin.Context) {
	claims, ok := identity.FromContext(c.Request.Context())
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	u, err := h.service.GetByExternalID(c.Request.Context(), claims.ExternalID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToUserResponse(u))
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToUserResponse(u))
}

func (h *Handler) create(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	u, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, ToUserResponse(u))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	u, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToUserResponse(u))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"deleted": true, "id": id})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid user ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, logger *zap.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}
