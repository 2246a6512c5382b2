package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/handler"
	"github.com/noah-isme/sma-absensi-api/internal/middleware"
	"github.com/noah-isme/sma-absensi-api/internal/repository"
	"github.com/noah-isme/sma-absensi-api/internal/service"
	"github.com/noah-isme/sma-absensi-api/pkg/cache"
	"github.com/noah-isme/sma-absensi-api/pkg/config"
	"github.com/noah-isme/sma-absensi-api/pkg/database"
	"github.com/noah-isme/sma-absensi-api/pkg/logger"
)

// @title SMA Absensi API
// @version 1.0.0
// @description Teacher and student attendance recap for a senior high school.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name sma_session

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
		if cfg.Session.Secret == "dev_session_secret" {
			logr.Fatal("SESSION_SECRET must be set in production")
		}
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, recap cache disabled", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo = repository.NewCacheRepository(redisClient)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Recap.CacheTTL, logr, cfg.Recap.CacheEnabled)
	validate := validator.New()
	loc := cfg.School.Location()

	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	teachers := repository.NewTeacherRepository(db)
	students := repository.NewStudentRepository(db)
	classes := repository.NewClassRepository(db)
	subjects := repository.NewSubjectRepository(db)
	majors := repository.NewMajorRepository(db)
	semesters := repository.NewSemesterRepository(db)
	weekdays := repository.NewWeekdayRepository(db)
	periods := repository.NewPeriodRepository(db)
	schedules := repository.NewScheduleRepository(db)
	teacherAttendance := repository.NewTeacherAttendanceRepository(db)
	studentAttendance := repository.NewStudentAttendanceRepository(db)
	calendar := repository.NewCalendarRepository(db)

	authSvc := service.NewAuthService(users, roles, validate, logr, service.AuthConfig{
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.TTL,
		Issuer:        "sma-absensi-api",
	})
	recapSvc := service.NewRecapService(service.RecapSources{
		Semesters:         semesters,
		Weekdays:          weekdays,
		Periods:           periods,
		Schedules:         schedules,
		TeacherAttendance: teacherAttendance,
		Teachers:          teachers,
		Classes:           classes,
		Students:          students,
		Sessions:          studentAttendance,
	}, cacheSvc, metricsSvc, logr, service.RecapConfig{Location: loc, CacheTTL: cfg.Recap.CacheTTL})
	attendanceSvc := service.NewAttendanceService(service.AttendanceDeps{
		Teachers:          teachers,
		Schedules:         schedules,
		Weekdays:          weekdays,
		Students:          students,
		TeacherAttendance: teacherAttendance,
		StudentAttendance: studentAttendance,
	}, cacheSvc, metricsSvc, validate, logr, loc)
	scheduleSvc := service.NewScheduleService(schedules, service.ScheduleLookups{
		Semesters: semesters,
		Weekdays:  weekdays,
		Periods:   periods,
		Teachers:  teachers,
		Classes:   classes,
		Subjects:  subjects,
	}, cacheSvc, validate, logr)

	handlers := routeHandlers{
		auth: handler.NewAuthHandler(authSvc, handler.CookieOptions{
			Name:   cfg.Session.CookieName,
			Domain: cfg.Session.CookieDomain,
			Secure: cfg.Session.CookieSecure,
		}),
		users:      handler.NewUserHandler(service.NewUserService(users, roles, teachers, validate, logr)),
		roles:      handler.NewRoleHandler(service.NewRoleService(roles, validate, logr)),
		semesters:  handler.NewSemesterHandler(service.NewSemesterService(semesters, cacheSvc, validate, logr)),
		timetable:  handler.NewTimetableHandler(service.NewWeekdayService(weekdays, cacheSvc, validate, logr), service.NewPeriodService(periods, cacheSvc, validate, logr)),
		schedules:  handler.NewScheduleHandler(scheduleSvc),
		attendance: handler.NewAttendanceHandler(attendanceSvc),
		recap:      handler.NewRecapHandler(recapSvc, service.NewExportService(recapSvc, nil, nil, logr)),
		teachers:   handler.NewTeacherHandler(service.NewTeacherService(teachers, validate, logr)),
		students:   handler.NewStudentHandler(service.NewStudentService(students, classes, cacheSvc, validate, logr)),
		classes:    handler.NewClassHandler(service.NewClassService(classes, majors, teachers, validate, logr)),
		subjects:   handler.NewSubjectHandler(service.NewSubjectService(subjects, validate, logr)),
		majors:     handler.NewMajorHandler(service.NewMajorService(majors, validate, logr)),
		calendar:   handler.NewCalendarHandler(service.NewCalendarService(calendar, validate, logr)),
		metrics:    handler.NewMetricsHandler(metricsSvc, db),
	}

	r := newRouter(cfg, logr, metricsSvc, authSvc, middleware.NewLoginLimiter(cfg.Login.RatePerMinute, cfg.Login.Burst), handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
