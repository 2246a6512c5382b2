package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
	"github.com/noah-isme/sma-absensi-api/pkg/response"
)

type attendanceService interface {
	CheckIn(ctx context.Context, teacherID string) (*models.TeacherAttendance, bool, error)
	ListTeacherAttendance(ctx context.Context, filter models.TeacherAttendanceFilter) ([]models.TeacherAttendance, error)
	UpsertTeacherAttendance(ctx context.Context, req models.UpsertTeacherAttendanceRequest) (*models.TeacherAttendance, error)
	GetSession(ctx context.Context, scheduleID, date string) (*models.StudentAttendance, error)
	UpsertSession(ctx context.Context, req models.UpsertStudentAttendanceRequest, recordedBy string) (*models.StudentAttendance, error)
}

// AttendanceHandler exposes teacher check-ins and student attendance sessions.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs an AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// CheckIn godoc
// @Summary Teacher check-in
// @Description Records the signed-in teacher's arrival at the current school time. The first check-in of the day wins.
// @Tags Teacher Attendance
// @Produce json
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher-attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	record, created, err := h.attendance.CheckIn(c.Request.Context(), claims.TeacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(c, status, record, nil, map[string]interface{}{"created": created})
}

// ListTeacherAttendance godoc
// @Summary List teacher check-ins
// @Tags Teacher Attendance
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param teacherId query string false "Filter by teacher"
// @Success 200 {object} response.Envelope
// @Router /teacher-attendance [get]
func (h *AttendanceHandler) ListTeacherAttendance(c *gin.Context) {
	rows, err := h.attendance.ListTeacherAttendance(c.Request.Context(), models.TeacherAttendanceFilter{
		From:      c.Query("from"),
		To:        c.Query("to"),
		TeacherID: c.Query("teacherId"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// UpsertTeacherAttendance godoc
// @Summary Record or correct a teacher check-in
// @Tags Teacher Attendance
// @Accept json
// @Produce json
// @Param payload body models.UpsertTeacherAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Router /teacher-attendance [put]
func (h *AttendanceHandler) UpsertTeacherAttendance(c *gin.Context) {
	var req models.UpsertTeacherAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	record, err := h.attendance.UpsertTeacherAttendance(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// GetSession godoc
// @Summary Get a student attendance session
// @Tags Student Attendance
// @Produce json
// @Param scheduleId query string true "Schedule ID"
// @Param date query string true "Session date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /student-attendance [get]
func (h *AttendanceHandler) GetSession(c *gin.Context) {
	scheduleID, date := c.Query("scheduleId"), c.Query("date")
	if scheduleID == "" || date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "scheduleId and date are required"))
		return
	}
	session, err := h.attendance.GetSession(c.Request.Context(), scheduleID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// UpsertSession godoc
// @Summary Record a student attendance session
// @Description Stores the sick, leave and absent rosters of one schedule slot on one date. Students not listed were present.
// @Tags Student Attendance
// @Accept json
// @Produce json
// @Param payload body models.UpsertStudentAttendanceRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Router /student-attendance [put]
func (h *AttendanceHandler) UpsertSession(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.UpsertStudentAttendanceRequest
	if !bindJSON(c, &req, "invalid session payload") {
		return
	}
	session, err := h.attendance.UpsertSession(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}
