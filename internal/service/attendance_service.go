package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	"github.com/noah-isme/sma-absensi-api/internal/recap"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type teacherAttendanceRepository interface {
	List(ctx context.Context, filter models.TeacherAttendanceFilter) ([]models.TeacherAttendance, error)
	CheckIn(ctx context.Context, teacherID, date, clock string) (*models.TeacherAttendance, bool, error)
	Upsert(ctx context.Context, record *models.TeacherAttendance) (*models.TeacherAttendance, error)
}

type studentAttendanceRepository interface {
	Find(ctx context.Context, scheduleID, date string) (*models.StudentAttendance, error)
	Upsert(ctx context.Context, record *models.StudentAttendance) (*models.StudentAttendance, error)
}

type attendanceTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type attendanceScheduleLookup interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
}

type attendanceWeekdayLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Weekday, error)
}

type attendanceRosterLookup interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
}

// AttendanceDeps groups the stores AttendanceService reads and writes.
type AttendanceDeps struct {
	Teachers          attendanceTeacherLookup
	Schedules         attendanceScheduleLookup
	Weekdays          attendanceWeekdayLookup
	Students          attendanceRosterLookup
	TeacherAttendance teacherAttendanceRepository
	StudentAttendance studentAttendanceRepository
}

// AttendanceService records teacher check-ins and class attendance sessions.
type AttendanceService struct {
	deps      AttendanceDeps
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewAttendanceService constructs an AttendanceService. Check-in clocks are taken in loc.
func NewAttendanceService(deps AttendanceDeps, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{deps: deps, cache: cache, metrics: metrics, validator: validate, logger: logger, location: loc, now: time.Now}
}

// CheckIn records the current time as today's check-in of the teacher. The first check-in of
// a day is kept; the flag reports whether this call created it.
func (s *AttendanceService) CheckIn(ctx context.Context, teacherID string) (*models.TeacherAttendance, bool, error) {
	if teacherID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrForbidden, "account is not linked to a teacher")
	}
	teacher, err := s.deps.Teachers.FindByID(ctx, teacherID)
	if err != nil {
		return nil, false, lookupError(err, "teacher not found", "load teacher")
	}
	if !teacher.Active {
		return nil, false, appErrors.Clone(appErrors.ErrForbidden, "teacher is inactive")
	}

	local := s.now().In(s.location)
	date := local.Format(recap.DateLayout)
	clock := local.Format("15:04")

	record, created, err := s.deps.TeacherAttendance.CheckIn(ctx, teacherID, date, clock)
	if err != nil {
		return nil, false, internalError(err, "record check-in")
	}
	s.metrics.RecordCheckIn(created)
	if created {
		s.cache.InvalidateRecaps(ctx)
	}
	s.logger.Info("teacher check-in",
		zap.String("teacher_id", teacherID),
		zap.String("date", date),
		zap.String("clock", clock),
		zap.Bool("created", created))
	return record, created, nil
}

// ListTeacherAttendance returns check-ins within an inclusive date range.
func (s *AttendanceService) ListTeacherAttendance(ctx context.Context, filter models.TeacherAttendanceFilter) ([]models.TeacherAttendance, error) {
	if err := checkRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	rows, err := s.deps.TeacherAttendance.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "list teacher attendance")
	}
	return rows, nil
}

// UpsertTeacherAttendance lets an administrator record or correct a teacher's day.
func (s *AttendanceService) UpsertTeacherAttendance(ctx context.Context, req models.UpsertTeacherAttendanceRequest) (*models.TeacherAttendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher attendance payload")
	}
	if _, err := s.deps.Teachers.FindByID(ctx, req.TeacherID); err != nil {
		return nil, lookupError(err, "teacher not found", "load teacher")
	}
	checkIn := normalizeOptional(req.CheckIn)
	if checkIn != nil {
		clock := recap.NormalizeClock(*checkIn)
		checkIn = &clock
	}
	record, err := s.deps.TeacherAttendance.Upsert(ctx, &models.TeacherAttendance{
		TeacherID: req.TeacherID,
		Date:      req.Date,
		CheckIn:   checkIn,
		Remarks:   normalizeOptional(req.Remarks),
	})
	if err != nil {
		return nil, internalError(err, "save teacher attendance")
	}
	s.cache.InvalidateRecaps(ctx)
	return record, nil
}

// GetSession returns the attendance taken for a schedule slot on a date.
func (s *AttendanceService) GetSession(ctx context.Context, scheduleID, date string) (*models.StudentAttendance, error) {
	if _, err := recap.ParseDate(date); err != nil {
		return nil, appErrors.FromError(err)
	}
	record, err := s.deps.StudentAttendance.Find(ctx, scheduleID, date)
	if err != nil {
		return nil, lookupError(err, "attendance session not found", "load attendance session")
	}
	return record, nil
}

// UpsertSession records the sick, leave and absent rosters of a session. Every listed student
// must belong to the scheduled class and appear in at most one roster.
func (s *AttendanceService) UpsertSession(ctx context.Context, req models.UpsertStudentAttendanceRequest, recordedBy string) (*models.StudentAttendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance session payload")
	}
	schedule, err := s.deps.Schedules.FindByID(ctx, req.ScheduleID)
	if err != nil {
		return nil, lookupError(err, "schedule not found", "load schedule")
	}
	if err := s.checkSessionDate(ctx, schedule, req.Date); err != nil {
		return nil, err
	}

	students, err := s.deps.Students.ListByClass(ctx, schedule.ClassID)
	if err != nil {
		return nil, internalError(err, "load class roster")
	}
	enrolled := make(map[string]struct{}, len(students))
	for _, st := range students {
		enrolled[st.ID] = struct{}{}
	}

	seen := make(map[string]string)
	clean := func(label string, ids []string) ([]string, error) {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := enrolled[id]; !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s is not in the scheduled class", id))
			}
			if prev, dup := seen[id]; dup {
				if prev == label {
					continue
				}
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s is listed as both %s and %s", id, prev, label))
			}
			seen[id] = label
			out = append(out, id)
		}
		return out, nil
	}
	sick, err := clean("sick", req.Sick)
	if err != nil {
		return nil, err
	}
	leave, err := clean("leave", req.Leave)
	if err != nil {
		return nil, err
	}
	absent, err := clean("absent", req.Absent)
	if err != nil {
		return nil, err
	}

	record := &models.StudentAttendance{
		ScheduleID: req.ScheduleID,
		Date:       req.Date,
		Sick:       pq.StringArray(sick),
		Leave:      pq.StringArray(leave),
		Absent:     pq.StringArray(absent),
		Notes:      normalizeOptional(req.Notes),
	}
	if recordedBy != "" {
		record.RecordedBy = &recordedBy
	}
	stored, err := s.deps.StudentAttendance.Upsert(ctx, record)
	if err != nil {
		return nil, internalError(err, "save attendance session")
	}
	s.cache.InvalidateRecaps(ctx)
	return stored, nil
}

func (s *AttendanceService) checkSessionDate(ctx context.Context, schedule *models.Schedule, raw string) error {
	date, err := recap.ParseDate(raw)
	if err != nil {
		return appErrors.FromError(err)
	}
	weekday, err := s.deps.Weekdays.FindByID(ctx, schedule.WeekdayID)
	if err != nil {
		return lookupError(err, "weekday not found", "load weekday")
	}
	wd, err := recap.ParseWeekday(weekday.Name)
	if err != nil {
		return appErrors.FromError(err)
	}
	if date.Weekday() != wd {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("schedule runs on %s, %s is a %s", weekday.Name, raw, date.Weekday()))
	}
	return nil
}
