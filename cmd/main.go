package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quillmont/satprep/config"
	"github.com/quillmont/satprep/database"
	_ "github.com/quillmont/satprep/docs" // Swagger docs - auto-generated
	"github.com/quillmont/satprep/internal/controller"
	"github.com/quillmont/satprep/internal/logger"
	"github.com/quillmont/satprep/internal/model"
	"github.com/quillmont/satprep/internal/repository"
	"github.com/quillmont/satprep/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title SAT Practice API
// @version 1.0
// @description API for AI-generated SAT practice questions, practice sessions, and word etymology lookups.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories layer
		fx.Provide(
			repository.NewTestRepository,
			repository.NewSessionRepository,
			repository.NewUserProgressRepository,
		),

		// Services layer
		fx.Provide(
			service.NewGeminiService,
			service.NewGenerationService,
			service.NewEtymologyService,
			service.NewProgressService,
			service.NewTestService,
			service.NewSessionService,
		),

		// API controllers layer
		fx.Provide(
			controller.NewGenerationController,
			controller.NewEtymologyController,
			controller.NewTestController,
			controller.NewSessionController,
			controller.NewProgressController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// One zerolog event per request instead of Gin's default logger.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	generationCtrl *controller.GenerationController,
	etymologyCtrl *controller.EtymologyController,
	testCtrl *controller.TestController,
	sessionCtrl *controller.SessionController,
	progressCtrl *controller.ProgressController,
) {
	api := router.Group("/api/v1")
	{
		api.POST("/generate", generationCtrl.Generate)
		api.GET("/etymology", etymologyCtrl.Lookup)
		api.GET("/random-word", etymologyCtrl.RandomWord)

		tests := api.Group("/tests")
		tests.POST("", testCtrl.CreateTest)
		tests.GET("", testCtrl.ListTests)
		tests.GET("/:test_id", testCtrl.GetTest)
		tests.POST("/:test_id/complete", testCtrl.CompleteTest)

		sessions := api.Group("/sessions")
		sessions.POST("", sessionCtrl.StartSession)
		sessions.GET("/:session_id", sessionCtrl.GetSession)
		sessions.POST("/:session_id/answer", sessionCtrl.SubmitAnswer)
		sessions.POST("/:session_id/advance", sessionCtrl.Advance)
		sessions.POST("/:session_id/exclusions", sessionCtrl.ToggleExclusion)

		api.GET("/users/:user_id/progress", progressCtrl.GetProgress)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("SAT Practice API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Test{},
		&model.PracticeSession{},
		&model.UserProgress{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
