package app

import (
	"surveylyze_backend/docs"
	"surveylyze_backend/internal/config"
	"surveylyze_backend/internal/middleware"
	"surveylyze_backend/internal/model"
	"surveylyze_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	public.GET("/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.user.GetProfile)

		student := authGroup.Group("/student")
		student.Use(middleware.RoleMiddleware(model.RoleStudent))
		a.registerStudentRoutes(student, c)

		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.RoleTeacher, model.RoleAdmin))
		a.registerTeacherRoutes(teacher, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/profile", c.user.CreateStudentProfile)

	// 问卷作答
	rg.GET("/surveys", c.studentSurvey.ListVisible)
	rg.GET("/surveys/:id", c.studentSurvey.GetSurvey)
	rg.POST("/surveys/:id/drafts", c.studentSurvey.StartDraft)
	rg.POST("/surveys/:id/submissions", c.studentSurvey.Submit)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/profile", c.user.CreateTeacherProfile)

	// 班级
	rg.GET("/sections", c.teacherSurvey.ListSections)
	rg.POST("/sections", c.teacherSurvey.CreateSection)
	rg.PUT("/sections/:id/students/:studentId", c.teacherSurvey.EnrollStudent)

	// 问卷管理
	rg.POST("/surveys", c.teacherSurvey.CreateSurvey)
	rg.GET("/surveys", c.teacherSurvey.ListSurveys)
	rg.GET("/surveys/:id", c.teacherSurvey.GetSurvey)
	rg.POST("/surveys/:id/questions", c.teacherSurvey.AddQuestion)
	rg.POST("/surveys/:id/publish", c.teacherSurvey.Publish)
	rg.POST("/surveys/:id/close", c.teacherSurvey.Close)
	rg.GET("/surveys/:id/assignments", c.teacherSurvey.ListAssignments)
	rg.POST("/surveys/:id/assignments", c.teacherSurvey.Assign)
	rg.DELETE("/surveys/:id/assignments/:sectionId", c.teacherSurvey.Unassign)

	// 分析
	rg.GET("/analytics/questions", c.analytics.GetQuestionAnalytics)
	rg.GET("/analytics/overview", c.analytics.GetOverview)
}
