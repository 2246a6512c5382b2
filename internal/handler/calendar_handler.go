package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	"github.com/noah-isme/sma-absensi-api/internal/service"
	"github.com/noah-isme/sma-absensi-api/pkg/response"
)

// CalendarHandler exposes academic calendar events.
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler constructs a CalendarHandler.
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// List godoc
// @Summary List calendar events
// @Tags Calendar
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param category query string false "HOLIDAY, EXAM or ACTIVITY"
// @Success 200 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) List(c *gin.Context) {
	events, err := h.calendar.List(c.Request.Context(), models.CalendarFilter{
		From:     c.Query("from"),
		To:       c.Query("to"),
		Category: c.Query("category"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Get godoc
// @Summary Get calendar event
// @Tags Calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /calendar/{id} [get]
func (h *CalendarHandler) Get(c *gin.Context) {
	event, err := h.calendar.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Create calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.CalendarEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /calendar [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	var req models.CalendarEventRequest
	if !bindJSON(c, &req, "invalid calendar payload") {
		return
	}
	event, err := h.calendar.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body models.CalendarEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Router /calendar/{id} [put]
func (h *CalendarHandler) Update(c *gin.Context) {
	var req models.CalendarEventRequest
	if !bindJSON(c, &req, "invalid calendar payload") {
		return
	}
	event, err := h.calendar.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete calendar event
// @Tags Calendar
// @Param id path string true "Event ID"
// @Success 204
// @Router /calendar/{id} [delete]
func (h *CalendarHandler) Delete(c *gin.Context) {
	if err := h.calendar.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
