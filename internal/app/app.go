package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"surveylyze_backend/internal/cache"
	"surveylyze_backend/internal/config"
	"surveylyze_backend/internal/controller"
	"surveylyze_backend/internal/middleware"
	"surveylyze_backend/internal/repository"
	"surveylyze_backend/internal/service"
	"surveylyze_backend/pkg/database"
	"surveylyze_backend/pkg/logger"
	"surveylyze_backend/pkg/monitoring"
	"surveylyze_backend/pkg/security"
	"surveylyze_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	limiter         *security.RateLimiter
	mu              sync.RWMutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	section    *repository.ClassSectionRepository
	survey     *repository.SurveyRepository
	question   *repository.QuestionRepository
	assignment *repository.AssignmentRepository
	history    *repository.HistoryRepository
	analytics  *repository.AnalyticsRepository
}

type services struct {
	user       *service.UserService
	section    *service.SectionService
	survey     *service.SurveyService
	visibility *service.VisibilityService
	submission *service.SubmissionService
	analytics  *service.AnalyticsService
}

type controllers struct {
	user          *controller.UserController
	studentSurvey *controller.StudentSurveyController
	teacherSurvey *controller.TeacherSurveyController
	analytics     *controller.AnalyticsController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig hands a reloaded config to every registered callback.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.RLock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.RUnlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		section:    repository.NewClassSectionRepository(db),
		survey:     repository.NewSurveyRepository(db),
		question:   repository.NewQuestionRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		history:    repository.NewHistoryRepository(db),
		analytics:  repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}
	loc := cfg.Server.Location()

	analyticsCache := cache.NewAnalyticsCache(rdb, cfg.Analytics.CacheTTL())

	s.user = service.NewUserService(repos.user)
	s.section = service.NewSectionService(repos.section, repos.user)
	s.survey = service.NewSurveyService(repos.survey, repos.question, repos.assignment, repos.section, loc)
	s.visibility = service.NewVisibilityService(repos.user, repos.survey, repos.history, loc)
	s.submission = service.NewSubmissionService(repos.user, repos.survey, repos.history, s.visibility, analyticsCache)
	s.analytics = service.NewAnalyticsService(
		repos.survey,
		repos.question,
		repos.analytics,
		analyticsCache,
		cfg.Analytics.KeywordLimit,
		loc,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		user:          controller.NewUserController(s.user),
		studentSurvey: controller.NewStudentSurveyController(s.user, s.visibility, s.submission),
		teacherSurvey: controller.NewTeacherSurveyController(s.user, s.survey, s.section),
		analytics:     controller.NewAnalyticsController(s.user, s.analytics),
		health:        controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
	a.limiter.StartCleanup()
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp wires the service. With cfg.MigrateOnly it stops after migrating.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")
	gin.SetMode(cfg.Server.Mode)

	// release 模式默认不自动迁移，需显式 -migrate
	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			// 分析缓存可选，连不上时降级为不缓存
			logger.Log.Warn("Redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			app.Redis = rdb
		}
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, app.Redis)
	controllers := app.initControllers(services, db, app.Redis)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		app.limiter.Update(newCfg.RateLimit.MaxRequests, newCfg.RateLimit.Window())
		logger.Log.Info("Config reloaded",
			zap.String("mode", newCfg.Server.Mode),
			zap.Int("rate_limit", newCfg.RateLimit.MaxRequests),
		)
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
