package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
	"github.com/noah-isme/sma-absensi-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, error)
	Get(ctx context.Context, id string) (*models.Schedule, error)
	Create(ctx context.Context, req models.ScheduleRequest) (*models.Schedule, error)
	Update(ctx context.Context, id string, req models.ScheduleRequest) (*models.Schedule, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleHandler exposes teaching schedule endpoints.
type ScheduleHandler struct {
	schedules scheduleService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(schedules scheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// List godoc
// @Summary List schedules
// @Tags Schedules
// @Produce json
// @Param semesterId query string false "Filter by semester"
// @Param teacherId query string false "Filter by teacher"
// @Param classId query string false "Filter by class"
// @Param weekdayId query int false "Filter by weekday"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	filter := models.ScheduleFilter{
		SemesterID: c.Query("semesterId"),
		TeacherID:  c.Query("teacherId"),
		ClassID:    c.Query("classId"),
	}
	if raw := c.Query("weekdayId"); raw != "" {
		weekday, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid weekdayId"))
			return
		}
		filter.WeekdayID = weekday
	}

	schedules, err := h.schedules.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Get godoc
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Create godoc
// @Summary Create schedule
// @Description Rejects a teacher or class already booked in the same semester, weekday and period.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body models.ScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req models.ScheduleRequest
	if !bindJSON(c, &req, "invalid schedule payload") {
		return
	}
	schedule, err := h.schedules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Update godoc
// @Summary Update schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body models.ScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req models.ScheduleRequest
	if !bindJSON(c, &req, "invalid schedule payload") {
		return
	}
	schedule, err := h.schedules.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete schedule
// @Tags Schedules
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
