package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-absensi-api/api/swagger"
	"github.com/noah-isme/sma-absensi-api/internal/handler"
	"github.com/noah-isme/sma-absensi-api/internal/menu"
	"github.com/noah-isme/sma-absensi-api/internal/middleware"
	"github.com/noah-isme/sma-absensi-api/internal/service"
	"github.com/noah-isme/sma-absensi-api/pkg/config"
	"github.com/noah-isme/sma-absensi-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-absensi-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-absensi-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	auth       *handler.AuthHandler
	users      *handler.UserHandler
	roles      *handler.RoleHandler
	semesters  *handler.SemesterHandler
	timetable  *handler.TimetableHandler
	schedules  *handler.ScheduleHandler
	attendance *handler.AttendanceHandler
	recap      *handler.RecapHandler
	teachers   *handler.TeacherHandler
	students   *handler.StudentHandler
	classes    *handler.ClassHandler
	subjects   *handler.SubjectHandler
	majors     *handler.MajorHandler
	calendar   *handler.CalendarHandler
	metrics    *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, auth *service.AuthService, limiter *middleware.LoginLimiter, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.metrics.Health)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	api.POST("/auth/login", limiter.Middleware(), h.auth.Login)
	api.POST("/auth/logout", h.auth.Logout)

	secured := api.Group("")
	secured.Use(middleware.Session(auth, cfg.Session.CookieName))

	secured.GET("/auth/me", h.auth.Me)
	secured.POST("/auth/change-password", h.auth.ChangePassword)
	secured.GET("/metrics/summary", middleware.RequirePermission(menu.PathDashboard), h.metrics.Summary)

	users := secured.Group("/users", middleware.RequirePermission(menu.PathUsers))
	users.GET("", h.users.List)
	users.POST("", h.users.Create)
	users.GET("/:id", h.users.Get)
	users.PUT("/:id", h.users.Update)
	users.DELETE("/:id", h.users.Delete)

	secured.GET("/menu", middleware.RequirePermission(menu.PathRoles), h.roles.Menu)
	roles := secured.Group("/roles", middleware.RequirePermission(menu.PathRoles))
	roles.GET("", h.roles.List)
	roles.POST("", h.roles.Create)
	roles.GET("/:id", h.roles.Get)
	roles.PUT("/:id", h.roles.Update)
	roles.DELETE("/:id", h.roles.Delete)
	roles.GET("/:id/menu", h.roles.Menu)
	roles.PATCH("/:id/permissions", h.roles.TogglePermission)

	secured.GET("/semesters/active", h.semesters.Active)
	semesters := secured.Group("/semesters", middleware.RequirePermission(menu.PathSemesters))
	semesters.GET("", h.semesters.List)
	semesters.POST("", h.semesters.Create)
	semesters.GET("/:id", h.semesters.Get)
	semesters.PUT("/:id", h.semesters.Update)
	semesters.POST("/:id/activate", h.semesters.Activate)
	semesters.DELETE("/:id", h.semesters.Delete)

	weekdays := secured.Group("/weekdays", middleware.RequirePermission(menu.PathWeekdays))
	weekdays.GET("", h.timetable.ListWeekdays)
	weekdays.PUT("/:id", h.timetable.UpdateWeekday)

	periods := secured.Group("/periods", middleware.RequirePermission(menu.PathPeriods))
	periods.GET("", h.timetable.ListPeriods)
	periods.POST("", h.timetable.CreatePeriod)
	periods.GET("/:id", h.timetable.GetPeriod)
	periods.PUT("/:id", h.timetable.UpdatePeriod)
	periods.DELETE("/:id", h.timetable.DeletePeriod)

	schedules := secured.Group("/schedules", middleware.RequirePermission(menu.PathSchedules))
	schedules.GET("", h.schedules.List)
	schedules.POST("", h.schedules.Create)
	schedules.GET("/:id", h.schedules.Get)
	schedules.PUT("/:id", h.schedules.Update)
	schedules.DELETE("/:id", h.schedules.Delete)

	secured.POST("/teacher-attendance/check-in", middleware.RequirePermission(menu.PathTeacherCheckIn), h.attendance.CheckIn)
	teacherAttendance := secured.Group("/teacher-attendance", middleware.RequirePermission(menu.PathTeacherAttendance))
	teacherAttendance.GET("", h.attendance.ListTeacherAttendance)
	teacherAttendance.PUT("", h.attendance.UpsertTeacherAttendance)

	studentAttendance := secured.Group("/student-attendance", middleware.RequirePermission(menu.PathStudentAttendance))
	studentAttendance.GET("", h.attendance.GetSession)
	studentAttendance.PUT("", h.attendance.UpsertSession)

	teacherRecap := secured.Group("/recap/teachers", middleware.RequirePermission(menu.PathTeacherRecap))
	teacherRecap.GET("", h.recap.Teachers)
	teacherRecap.GET("/export", h.recap.ExportTeachers)

	studentRecap := secured.Group("/recap/classes/:id/students", middleware.RequirePermission(menu.PathStudentRecap))
	studentRecap.GET("", h.recap.Students)
	studentRecap.GET("/export", h.recap.ExportStudents)

	teachers := secured.Group("/teachers", middleware.RequirePermission(menu.PathTeachers))
	teachers.GET("", h.teachers.List)
	teachers.POST("", h.teachers.Create)
	teachers.GET("/:id", h.teachers.Get)
	teachers.PUT("/:id", h.teachers.Update)
	teachers.DELETE("/:id", h.teachers.Delete)

	students := secured.Group("/students", middleware.RequirePermission(menu.PathStudents))
	students.GET("", h.students.List)
	students.POST("", h.students.Create)
	students.GET("/:id", h.students.Get)
	students.PUT("/:id", h.students.Update)
	students.DELETE("/:id", h.students.Delete)

	classes := secured.Group("/classes", middleware.RequirePermission(menu.PathClasses))
	classes.GET("", h.classes.List)
	classes.POST("", h.classes.Create)
	classes.GET("/:id", h.classes.Get)
	classes.PUT("/:id", h.classes.Update)
	classes.DELETE("/:id", h.classes.Delete)

	subjects := secured.Group("/subjects", middleware.RequirePermission(menu.PathSubjects))
	subjects.GET("", h.subjects.List)
	subjects.POST("", h.subjects.Create)
	subjects.GET("/:id", h.subjects.Get)
	subjects.PUT("/:id", h.subjects.Update)
	subjects.DELETE("/:id", h.subjects.Delete)

	majors := secured.Group("/majors", middleware.RequirePermission(menu.PathMajors))
	majors.GET("", h.majors.List)
	majors.POST("", h.majors.Create)
	majors.GET("/:id", h.majors.Get)
	majors.PUT("/:id", h.majors.Update)
	majors.DELETE("/:id", h.majors.Delete)

	calendar := secured.Group("/calendar", middleware.RequirePermission(menu.PathCalendar))
	calendar.GET("", h.calendar.List)
	calendar.POST("", h.calendar.Create)
	calendar.GET("/:id", h.calendar.Get)
	calendar.PUT("/:id", h.calendar.Update)
	calendar.DELETE("/:id", h.calendar.Delete)

	return r
}
