package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absensi-api/internal/dto"
	"github.com/noah-isme/sma-absensi-api/internal/middleware"
	"github.com/noah-isme/sma-absensi-api/internal/service"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
	"github.com/noah-isme/sma-absensi-api/pkg/response"
)

type recapService interface {
	TeacherRecap(ctx context.Context, query dto.RecapQuery) (*dto.TeacherRecapResponse, bool, error)
	StudentRecap(ctx context.Context, classID string) (*dto.StudentRecapResponse, bool, error)
}

type recapExporter interface {
	TeacherRecap(ctx context.Context, format string) (*service.ExportFile, error)
	StudentRecap(ctx context.Context, classID, format string) (*service.ExportFile, error)
}

// RecapHandler serves attendance recaps of the active semester.
type RecapHandler struct {
	recaps  recapService
	exports recapExporter
}

// NewRecapHandler constructs a RecapHandler.
func NewRecapHandler(recaps recapService, exports recapExporter) *RecapHandler {
	return &RecapHandler{recaps: recaps, exports: exports}
}

// Teachers godoc
// @Summary Teacher attendance recap
// @Description Per-teacher totals over the active semester up to today, with the H/T/- marker for today.
// @Tags Recap
// @Produce json
// @Param teacherId query string false "Restrict to one teacher"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /recap/teachers [get]
func (h *RecapHandler) Teachers(c *gin.Context) {
	var query dto.RecapQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid recap query"))
		return
	}
	res, hit, err := h.recaps.TeacherRecap(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil, middleware.SetCacheHit(c, hit))
}

// ExportTeachers godoc
// @Summary Export teacher attendance recap
// @Tags Recap
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /recap/teachers/export [get]
func (h *RecapHandler) ExportTeachers(c *gin.Context) {
	var query dto.ExportQuery
	_ = c.ShouldBindQuery(&query)
	file, err := h.exports.TeacherRecap(c.Request.Context(), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Students godoc
// @Summary Class attendance recap
// @Description Per-student totals of the class over the active semester up to today.
// @Tags Recap
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /recap/classes/{id}/students [get]
func (h *RecapHandler) Students(c *gin.Context) {
	res, hit, err := h.recaps.StudentRecap(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil, middleware.SetCacheHit(c, hit))
}

// ExportStudents godoc
// @Summary Export class attendance recap
// @Tags Recap
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Class ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /recap/classes/{id}/students/export [get]
func (h *RecapHandler) ExportStudents(c *gin.Context) {
	var query dto.ExportQuery
	_ = c.ShouldBindQuery(&query)
	file, err := h.exports.StudentRecap(c.Request.Context(), c.Param("id"), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
