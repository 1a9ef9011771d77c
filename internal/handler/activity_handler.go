package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mergington-activities-api/internal/middleware"
	"github.com/noah-isme/mergington-activities-api/internal/models"
	"github.com/noah-isme/mergington-activities-api/internal/service"
	"github.com/noah-isme/mergington-activities-api/pkg/response"
)

type activityService interface {
	List(ctx context.Context) (models.Activities, error)
	Signup(ctx context.Context, activity, email, actor string) (string, error)
	Unregister(ctx context.Context, activity, email, actor string) (string, error)
	ExportRoster(ctx context.Context, name, format string) (*service.RosterFile, error)
}

// ActivityHandler exposes the activity catalogue and roster endpoints.
type ActivityHandler struct {
	service activityService
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc activityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// List godoc
// @Summary List activities
// @Tags Activities
// @Produce json
// @Success 200 {object} models.Activities
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	activities, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities)
}

// Signup godoc
// @Summary Sign up a student
// @Description Requires a teacher session cookie
// @Tags Activities
// @Produce json
// @Param name path string true "Activity name"
// @Param email query string true "Student email"
// @Success 200 {object} response.Message
// @Failure 400 {object} errors.Error
// @Failure 401 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /activities/{name}/signup [post]
func (h *ActivityHandler) Signup(c *gin.Context) {
	msg, err := h.service.Signup(c.Request.Context(), c.Param("name"), c.Query("email"), middleware.CurrentTeacher(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}

// Unregister godoc
// @Summary Unregister a student
// @Description Requires a teacher session cookie
// @Tags Activities
// @Produce json
// @Param name path string true "Activity name"
// @Param email query string true "Student email"
// @Success 200 {object} response.Message
// @Failure 400 {object} errors.Error
// @Failure 401 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /activities/{name}/unregister [delete]
func (h *ActivityHandler) Unregister(c *gin.Context) {
	msg, err := h.service.Unregister(c.Request.Context(), c.Param("name"), c.Query("email"), middleware.CurrentTeacher(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}

// ExportRoster godoc
// @Summary Download an activity roster
// @Tags Activities
// @Produce text/csv,application/pdf
// @Param name path string true "Activity name"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} errors.Error
// @Failure 401 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /activities/{name}/roster [get]
func (h *ActivityHandler) ExportRoster(c *gin.Context) {
	file, err := h.service.ExportRoster(c.Request.Context(), c.Param("name"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
