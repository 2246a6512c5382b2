package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/dto"
	"github.com/noah-isme/sma-absensi-api/internal/models"
	"github.com/noah-isme/sma-absensi-api/internal/recap"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type recapSemesterReader interface {
	FindActive(ctx context.Context) (*models.Semester, error)
}

type recapWeekdayReader interface {
	List(ctx context.Context) ([]models.Weekday, error)
}

type recapPeriodReader interface {
	List(ctx context.Context) ([]models.Period, error)
}

type recapScheduleReader interface {
	ListSlots(ctx context.Context, semesterID string) ([]models.Schedule, error)
}

type recapTeacherAttendanceReader interface {
	List(ctx context.Context, filter models.TeacherAttendanceFilter) ([]models.TeacherAttendance, error)
}

type recapTeacherNameReader interface {
	ListNames(ctx context.Context, ids []string) (map[string]string, error)
}

type recapClassReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassDetail, error)
}

type recapRosterReader interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
}

type recapSessionReader interface {
	ListByClass(ctx context.Context, classID, from, to string) ([]models.StudentAttendance, error)
}

// RecapSources bundles the read models a recap is computed from.
type RecapSources struct {
	Semesters         recapSemesterReader
	Weekdays          recapWeekdayReader
	Periods           recapPeriodReader
	Schedules         recapScheduleReader
	TeacherAttendance recapTeacherAttendanceReader
	Teachers          recapTeacherNameReader
	Classes           recapClassReader
	Students          recapRosterReader
	Sessions          recapSessionReader
}

// RecapConfig tunes recap computation.
type RecapConfig struct {
	Location *time.Location
	CacheTTL time.Duration
	Now      func() time.Time
}

// RecapService loads a snapshot of the active semester and runs the recap pipeline over it.
type RecapService struct {
	src     RecapSources
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     RecapConfig
}

// NewRecapService constructs a RecapService.
func NewRecapService(src RecapSources, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg RecapConfig) *RecapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &RecapService{src: src, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Today returns the current civil date in the school time zone.
func (s *RecapService) Today() time.Time {
	return recap.CivilDate(s.cfg.Now().In(s.cfg.Location))
}

// TeacherRecap computes the teacher attendance recap for the active semester. The boolean
// reports whether the result came from cache.
func (s *RecapService) TeacherRecap(ctx context.Context, query dto.RecapQuery) (*dto.TeacherRecapResponse, bool, error) {
	today := s.Today()
	semester, start, end, err := s.activeSemester(ctx)
	if err != nil {
		return nil, false, err
	}

	key := fmt.Sprintf("%s:%s:%s", teacherRecapKey, semester.ID, recap.FormatDate(today))
	if query.TeacherID != "" {
		key += ":" + query.TeacherID
	}
	var cached dto.TeacherRecapResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	input, err := s.teacherInput(ctx, semester.ID, start, end, query.TeacherID)
	if err != nil {
		return nil, false, err
	}
	input.Today = today

	began := time.Now()
	result, err := recap.ComputeTeacherRecap(*input)
	if err != nil {
		return nil, false, appErrors.FromError(err)
	}
	s.metrics.ObserveRecap("teacher", len(result.Summaries), time.Since(began))

	persons := make([]string, 0, len(result.Summaries))
	for _, summary := range result.Summaries {
		persons = append(persons, summary.PersonID)
	}
	names, err := s.src.Teachers.ListNames(ctx, persons)
	if err != nil {
		return nil, false, internalError(err, "load teacher names")
	}
	for i := range result.Summaries {
		result.Summaries[i].Name = names[result.Summaries[i].PersonID]
	}

	resp := &dto.TeacherRecapResponse{
		Semester:      semesterRef(semester),
		Today:         recap.FormatDate(today),
		EffectiveDays: result.EffectiveDays,
		Summaries:     result.Summaries,
		Details:       result.Details,
	}
	s.cache.Set(ctx, key, resp, s.cfg.CacheTTL)
	s.logger.Debug("teacher recap computed",
		zap.String("semester", semester.ID),
		zap.Int("persons", len(resp.Summaries)),
		zap.Int("effective_days", resp.EffectiveDays))
	return resp, false, nil
}

// StudentRecap computes the four-category recap of a class for the active semester.
func (s *RecapService) StudentRecap(ctx context.Context, classID string) (*dto.StudentRecapResponse, bool, error) {
	today := s.Today()
	semester, start, end, err := s.activeSemester(ctx)
	if err != nil {
		return nil, false, err
	}
	if _, err := s.src.Classes.FindByID(ctx, classID); err != nil {
		return nil, false, lookupError(err, "class not found", "load class")
	}

	key := fmt.Sprintf("%s:%s:%s:%s", studentRecapKey, semester.ID, classID, recap.FormatDate(today))
	var cached dto.StudentRecapResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	students, err := s.src.Students.ListByClass(ctx, classID)
	if err != nil {
		return nil, false, internalError(err, "load class roster")
	}
	rows, err := s.src.Sessions.ListByClass(ctx, classID, recap.FormatDate(start), recap.FormatDate(end))
	if err != nil {
		return nil, false, internalError(err, "load student attendance")
	}

	roster := make([]string, 0, len(students))
	names := make(map[string]string, len(students))
	for _, st := range students {
		roster = append(roster, st.ID)
		names[st.ID] = st.FullName
	}
	sessions := make([]recap.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, recap.Session{
			ScheduleID: row.ScheduleID,
			Date:       row.Date,
			Sick:       row.Sick,
			Leave:      row.Leave,
			Absent:     row.Absent,
		})
	}

	began := time.Now()
	result, err := recap.ComputeStudentRecap(roster, sessions, today)
	if err != nil {
		return nil, false, appErrors.FromError(err)
	}
	s.metrics.ObserveRecap("student", len(result.Summaries), time.Since(began))
	for i := range result.Summaries {
		result.Summaries[i].Name = names[result.Summaries[i].PersonID]
	}

	resp := &dto.StudentRecapResponse{
		Semester:    semesterRef(semester),
		ClassID:     classID,
		Today:       recap.FormatDate(today),
		SessionDays: result.SessionDays,
		Summaries:   result.Summaries,
		Details:     result.Details,
	}
	s.cache.Set(ctx, key, resp, s.cfg.CacheTTL)
	return resp, false, nil
}

func (s *RecapService) activeSemester(ctx context.Context) (*models.Semester, time.Time, time.Time, error) {
	semester, err := s.src.Semesters.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, time.Time{}, appErrors.FromError(recap.ErrMissingActiveSemester)
		}
		return nil, time.Time{}, time.Time{}, internalError(err, "load active semester")
	}
	if semester.StartDate == nil || semester.EndDate == nil || *semester.StartDate == "" || *semester.EndDate == "" {
		return nil, time.Time{}, time.Time{}, appErrors.FromError(fmt.Errorf("semester %s: %w", semester.ID, recap.ErrIncompleteSemesterDates))
	}
	start, err := recap.ParseDate(*semester.StartDate)
	if err != nil {
		return nil, time.Time{}, time.Time{}, appErrors.FromError(err)
	}
	end, err := recap.ParseDate(*semester.EndDate)
	if err != nil {
		return nil, time.Time{}, time.Time{}, appErrors.FromError(err)
	}
	return semester, start, end, nil
}

func (s *RecapService) teacherInput(ctx context.Context, semesterID string, start, end time.Time, teacherID string) (*recap.TeacherInput, error) {
	weekdays, err := s.src.Weekdays.List(ctx)
	if err != nil {
		return nil, internalError(err, "load weekdays")
	}
	periods, err := s.src.Periods.List(ctx)
	if err != nil {
		return nil, internalError(err, "load periods")
	}
	slots, err := s.src.Schedules.ListSlots(ctx, semesterID)
	if err != nil {
		return nil, internalError(err, "load schedules")
	}
	attendance, err := s.src.TeacherAttendance.List(ctx, models.TeacherAttendanceFilter{
		From:      recap.FormatDate(start),
		To:        recap.FormatDate(end),
		TeacherID: teacherID,
	})
	if err != nil {
		return nil, internalError(err, "load teacher attendance")
	}

	configs := make([]recap.WeekdayConfig, 0, len(weekdays))
	for _, w := range weekdays {
		configs = append(configs, recap.WeekdayConfig{ID: w.ID, Name: w.Name, Enabled: w.Enabled})
	}
	table, err := recap.WeekdayTable(configs)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	entries := make([]recap.ScheduleEntry, 0, len(slots))
	for _, slot := range slots {
		if teacherID != "" && slot.TeacherID != teacherID {
			continue
		}
		wd, ok := table[slot.WeekdayID]
		if !ok {
			s.logger.Warn("schedule references unknown weekday", zap.String("schedule", slot.ID), zap.Int64("weekday_id", slot.WeekdayID))
			continue
		}
		entries = append(entries, recap.ScheduleEntry{PersonID: slot.TeacherID, Weekday: wd, PeriodID: slot.PeriodID})
	}

	starts := make(map[int64]string, len(periods))
	for _, p := range periods {
		starts[p.ID] = recap.NormalizeClock(p.StartTime)
	}

	records := make([]recap.AttendanceRecord, 0, len(attendance))
	for _, a := range attendance {
		records = append(records, recap.AttendanceRecord{PersonID: a.TeacherID, Date: a.Date, CheckIn: a.CheckIn})
	}

	return &recap.TeacherInput{
		Start:        start,
		End:          end,
		Weekdays:     configs,
		Schedule:     entries,
		PeriodStarts: starts,
		Attendance:   records,
	}, nil
}

func semesterRef(s *models.Semester) dto.SemesterRef {
	ref := dto.SemesterRef{ID: s.ID, Name: s.Name}
	if s.StartDate != nil {
		ref.StartDate = *s.StartDate
	}
	if s.EndDate != nil {
		ref.EndDate = *s.EndDate
	}
	return ref
}
