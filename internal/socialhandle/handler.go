package socialhandle

import (
	"errors"
	"strconv"

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

// RegisterRoutes mounts /social-handles. Reads are public, writes require authMW.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW gin.HandlerFunc) {
	g := router.Group("/social-handles")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", authMW, h.create)
	g.PATCH("/:id", authMW, h.update)
	g.DELETE("/:id", authMW, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	visibleOnly, err := strconv.ParseBool(c.DefaultQuery("visible_only", "false"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Query parameter 'visible_only' must be a boolean."))
		return
	}
	handles, err := h.service.List(c.Request.Context(), visibleOnly)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]Response, 0, len(handles))
	for i := range handles {
		out = append(out, ToResponse(&handles[i]))
	}
	common.RespondOK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sh, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToResponse(sh))
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sh, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, ToResponse(sh))
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
	sh, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToResponse(sh))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sh, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToResponse(sh))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid social handle ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Invalid social handle request body", zap.Error(err))
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
