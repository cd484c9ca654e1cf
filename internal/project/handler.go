package project

import (
	"errors"
	"strconv"

	"portfolio_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for project handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new project handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts /projects. Reads are public, writes require authMW.
func (h *Handler) RegisterRoutes(router gin.IRouter, authMW gin.HandlerFunc) {
	projects := router.Group("/projects")
	projects.GET("", h.list)
	projects.GET("/search", h.search)
	projects.GET("/:id", h.get)
	projects.POST("", authMW, h.create)
	projects.PATCH("/:id", authMW, h.update)
	projects.DELETE("/:id", authMW, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)

	var filter ListFilter
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Query parameter 'featured' must be a boolean."))
			return
		}
		filter.Featured = &featured
	}
	if raw := c.Query("status"); raw != "" {
		switch Status(raw) {
		case StatusStart, StatusOngoing, StatusDone, StatusCanceled, StatusUpcoming:
			filter.Status = Status(raw)
		default:
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid status filter."))
			return
		}
	}

	projects, pagination, err := h.service.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, toResponses(projects), pagination)
}

func (h *Handler) search(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	projects, pagination, err := h.service.Search(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, toResponses(projects), pagination)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToProjectResponse(p))
}

func (h *Handler) create(c *gin.Context) {
	var req CreateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, ToProjectResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid project ID format."))
		return
	}
	var req UpdateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToProjectResponse(p))
}

func (h *Handler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid project ID format."))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"deleted": true, "id": id})
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Invalid project request body", zap.Error(err))
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

func toResponses(projects []Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, ToProjectResponse(&projects[i]))
	}
	return out
}
