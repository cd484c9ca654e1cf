package interest

import (
	"errors"

	"portfolio_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router gin.IRouter, authMW gin.HandlerFunc) {
	g := router.Group("/interests")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", authMW, h.create)
	g.PATCH("/:id", authMW, h.update)
	g.DELETE("/:id", authMW, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	interests, err := h.service.List(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]Response, 0, len(interests))
	for i := range interests {
		out = append(out, ToResponse(&interests[i]))
	}
	common.RespondOK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	i, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToResponse(i))
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	i, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, ToResponse(i))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	i, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToResponse(i))
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
	common.RespondNoContent(c)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid interest ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	h.logger.Warn("Invalid interest request body", zap.Error(err))
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
	} else {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
	}
	return false
}
