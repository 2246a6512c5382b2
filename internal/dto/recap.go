package dto

import (
	"github.com/noah-isme/sma-absensi-api/internal/menu"
	"github.com/noah-isme/sma-absensi-api/internal/recap"
)

// RecapQuery carries the optional filters of a teacher recap request.
type RecapQuery struct {
	TeacherID string `form:"teacherId"`
}

// ExportQuery selects the export encoding.
type ExportQuery struct {
	Format string `form:"format"`
}

// SemesterRef identifies the semester a recap was computed for.
type SemesterRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// TeacherRecapResponse is the payload of the teacher recap endpoint.
type TeacherRecapResponse struct {
	Semester      SemesterRef                          `json:"semester"`
	Today         string                               `json:"today"`
	EffectiveDays int                                  `json:"effective_days"`
	Summaries     []recap.RecapSummary                 `json:"summaries"`
	Details       map[string][]recap.DayClassification `json:"details"`
}

// StudentRecapResponse is the payload of the class recap endpoint.
type StudentRecapResponse struct {
	Semester    SemesterRef                          `json:"semester"`
	ClassID     string                               `json:"class_id"`
	Today       string                               `json:"today"`
	SessionDays int                                  `json:"session_days"`
	Summaries   []recap.StudentSummary               `json:"summaries"`
	Details     map[string][]recap.DayClassification `json:"details"`
}

// MenuResponse is the permission-annotated menu tree for a role.
type MenuResponse struct {
	RoleID      string      `json:"role_id,omitempty"`
	Permissions []string    `json:"permissions"`
	Tree        []menu.Node `json:"tree"`
}
