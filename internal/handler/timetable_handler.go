package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	"github.com/noah-isme/sma-absensi-api/internal/service"
	"github.com/noah-isme/sma-absensi-api/pkg/response"
)

// TimetableHandler exposes weekday configuration and lesson periods.
type TimetableHandler struct {
	weekdays *service.WeekdayService
	periods  *service.PeriodService
}

// NewTimetableHandler constructs a TimetableHandler.
func NewTimetableHandler(weekdays *service.WeekdayService, periods *service.PeriodService) *TimetableHandler {
	return &TimetableHandler{weekdays: weekdays, periods: periods}
}

// ListWeekdays godoc
// @Summary List weekdays
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /weekdays [get]
func (h *TimetableHandler) ListWeekdays(c *gin.Context) {
	days, err := h.weekdays.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, nil)
}

// UpdateWeekday godoc
// @Summary Enable or disable a weekday
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path int true "Weekday ID"
// @Param payload body models.UpdateWeekdayRequest true "Weekday payload"
// @Success 200 {object} response.Envelope
// @Router /weekdays/{id} [put]
func (h *TimetableHandler) UpdateWeekday(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req models.UpdateWeekdayRequest
	if !bindJSON(c, &req, "invalid weekday payload") {
		return
	}
	day, err := h.weekdays.SetEnabled(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, day, nil)
}

// ListPeriods godoc
// @Summary List lesson periods
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *TimetableHandler) ListPeriods(c *gin.Context) {
	periods, err := h.periods.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// GetPeriod godoc
// @Summary Get lesson period
// @Tags Timetable
// @Produce json
// @Param id path int true "Period ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{id} [get]
func (h *TimetableHandler) GetPeriod(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	period, err := h.periods.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, period, nil)
}

// CreatePeriod godoc
// @Summary Create lesson period
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body models.PeriodRequest true "Period payload"
// @Success 201 {object} response.Envelope
// @Router /periods [post]
func (h *TimetableHandler) CreatePeriod(c *gin.Context) {
	var req models.PeriodRequest
	if !bindJSON(c, &req, "invalid period payload") {
		return
	}
	period, err := h.periods.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// UpdatePeriod godoc
// @Summary Update lesson period
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path int true "Period ID"
// @Param payload body models.PeriodRequest true "Period payload"
// @Success 200 {object} response.Envelope
// @Router /periods/{id} [put]
func (h *TimetableHandler) UpdatePeriod(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req models.PeriodRequest
	if !bindJSON(c, &req, "invalid period payload") {
		return
	}
	period, err := h.periods.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, period, nil)
}

// DeletePeriod godoc
// @Summary Delete lesson period
// @Tags Timetable
// @Param id path int true "Period ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /periods/{id} [delete]
func (h *TimetableHandler) DeletePeriod(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.periods.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
