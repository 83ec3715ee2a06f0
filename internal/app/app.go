package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ravishyamsingh/Quiz-System/internal/config"
	"github.com/Ravishyamsingh/Quiz-System/internal/controller"
	"github.com/Ravishyamsingh/Quiz-System/internal/service"
	"github.com/Ravishyamsingh/Quiz-System/internal/store"
	"github.com/Ravishyamsingh/Quiz-System/pkg/database"
	"github.com/Ravishyamsingh/Quiz-System/pkg/logger"
	"github.com/Ravishyamsingh/Quiz-System/pkg/monitoring"
	"github.com/Ravishyamsingh/Quiz-System/pkg/security"
	"github.com/Ravishyamsingh/Quiz-System/pkg/tracing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Store           store.DocumentStore
	services        *services
	configCallbacks []func(*config.Config)
}

type services struct {
	auth       *service.AuthService
	generation *service.GenerationService
	quiz       *service.QuizService
}

type controllers struct {
	auth   *controller.AuthController
	quiz   *controller.QuizController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig hands a hot-reloaded config to registered listeners.
func (a *App) ApplyConfig(cfg *config.Config) {
	logger.Log.Info("configuration reloaded")
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initServices(st store.DocumentStore, cfg *config.Config) *services {
	s := &services{}

	// Ordered failover chain: primary first, then fallback.
	s.generation = service.NewGenerationService(
		cfg.AI.ProviderTimeout(),
		service.NewChatProvider("primary", cfg.AI.Primary),
		service.NewChatProvider("fallback", cfg.AI.Fallback),
	)
	s.auth = service.NewAuthService(st, cfg)
	s.quiz = service.NewQuizService(st, s.generation)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:   controller.NewAuthController(s.auth),
		quiz:   controller.NewQuizController(s.quiz),
		health: controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Store:  store.NewGormStore(db),
	}

	services := app.initServices(app.Store, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("quiz-system", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
