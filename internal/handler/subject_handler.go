package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	"github.com/noah-isme/sma-absensi-api/internal/service"
	"github.com/noah-isme/sma-absensi-api/pkg/response"
)

// SubjectHandler exposes subject endpoints.
type SubjectHandler struct {
	subjects *service.SubjectService
}

// NewSubjectHandler constructs a SubjectHandler.
func NewSubjectHandler(subjects *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Param search query string false "Search by code or name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	filter := models.CodeNameFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	filter.Page, filter.PageSize = pageQuery(c)

	items, pagination, err := h.subjects.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get subject
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	item, err := h.subjects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body models.CodeNameRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req models.CodeNameRequest
	if !bindJSON(c, &req, "invalid subject payload") {
		return
	}
	item, err := h.subjects.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body models.CodeNameRequest true "Subject payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	var req models.CodeNameRequest
	if !bindJSON(c, &req, "invalid subject payload") {
		return
	}
	item, err := h.subjects.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete subject
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.subjects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MajorHandler exposes major endpoints.
type MajorHandler struct {
	majors *service.MajorService
}

// NewMajorHandler constructs a MajorHandler.
func NewMajorHandler(majors *service.MajorService) *MajorHandler {
	return &MajorHandler{majors: majors}
}

// List godoc
// @Summary List majors
// @Tags Majors
// @Produce json
// @Param search query string false "Search by code or name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /majors [get]
func (h *MajorHandler) List(c *gin.Context) {
	filter := models.CodeNameFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	filter.Page, filter.PageSize = pageQuery(c)

	items, pagination, err := h.majors.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get major
// @Tags Majors
// @Produce json
// @Param id path string true "Major ID"
// @Success 200 {object} response.Envelope
// @Router /majors/{id} [get]
func (h *MajorHandler) Get(c *gin.Context) {
	item, err := h.majors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create major
// @Tags Majors
// @Accept json
// @Produce json
// @Param payload body models.CodeNameRequest true "Major payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /majors [post]
func (h *MajorHandler) Create(c *gin.Context) {
	var req models.CodeNameRequest
	if !bindJSON(c, &req, "invalid major payload") {
		return
	}
	item, err := h.majors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update major
// @Tags Majors
// @Accept json
// @Produce json
// @Param id path string true "Major ID"
// @Param payload body models.CodeNameRequest true "Major payload"
// @Success 200 {object} response.Envelope
// @Router /majors/{id} [put]
func (h *MajorHandler) Update(c *gin.Context) {
	var req models.CodeNameRequest
	if !bindJSON(c, &req, "invalid major payload") {
		return
	}
	item, err := h.majors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete major
// @Tags Majors
// @Param id path string true "Major ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /majors/{id} [delete]
func (h *MajorHandler) Delete(c *gin.Context) {
	if err := h.majors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
