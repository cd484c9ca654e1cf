package service

import (
	"errors"

	"portfolio_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	offerings Service
	logger    *zap.Logger
}

func NewHandler(offerings Service, logger *zap.Logger) *Handler {
	return &Handler{offerings: offerings, logger: logger}
}

// RegisterRoutes mounts /services. Reads are public, writes require authMW.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW gin.HandlerFunc) {
	g := router.Group("/services")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", authMW, h.create)
	g.PATCH("/:id", authMW, h.update)
	g.DELETE("/:id", authMW, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	offerings, err := h.offerings.List(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]Response, 0, len(offerings))
	for i := range offerings {
		out = append(out, ToResponse(&offerings[i]))
	}
	common.RespondOK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	o, err := h.offerings.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToResponse(o))
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	o, err := h.offerings.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, ToResponse(o))
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
	o, err := h.offerings.Update(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToResponse(o))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.offerings.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.LoggerWithRequestID(c.Request.Context(), h.logger).Info("Service deleted", zap.String("service_id", id.String()))
	common.RespondNoContent(c)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid service ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Invalid service request body", zap.Error(err))
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
