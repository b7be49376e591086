package main

import (
	"os"
	"os/signal"
	"syscall"

	"naform.link/configs"
	"naform.link/configs/configslog"
	api_handlers "naform.link/handlers/api"
	"naform.link/repositories"
	"naform.link/routes"
	"naform.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configs.Load()

	// --- Bağımlılıklar (bir kez kurulur, süreç ömrü boyunca yaşar) ---
	formRepo := repositories.NewFormRepository(cfg.FormsDir())
	submissionRepo := repositories.NewSubmissionRepository(cfg.SubmissionsDir())

	webhookService := services.NewWebhookService(cfg)
	authService := services.NewAuthService(cfg)

	// Üretici API anahtarı yoksa form üretimi devre dışı kalır; servis 503 döner.
	var generator services.ISchemaGenerator
	if g := services.NewOpenAIGenerator(cfg); g != nil {
		generator = g
		configslog.SLog.Infof("Şema üreticisi hazır: model=%s", g.Name())
	} else {
		configslog.SLog.Warn("OPENAI_API_KEY tanımlı değil: form üretimi kullanılamayacak")
	}

	formService := services.NewFormService(formRepo, submissionRepo, generator)
	submissionService := services.NewSubmissionService(formRepo, submissionRepo, webhookService)

	handlers := &routes.Handlers{
		Form:        api_handlers.NewFormHandler(cfg, formService),
		Submission:  api_handlers.NewSubmissionHandler(submissionService, submissionRepo),
		Webhook:     api_handlers.NewWebhookHandler(webhookService),
		Auth:        api_handlers.NewAuthHandler(authService),
		AuthService: authService,
	}

	app := fiber.New(fiber.Config{
		AppName:   "NAFormDashboard API",
		BodyLimit: cfg.MaxUploadBytes,
	})
	routes.SetupRoutes(app, cfg, handlers)

	// --- Sunucu ve düzgün kapanış ---
	go func() {
		configslog.SLog.Infof("Sunucu başlatılıyor: port=%s veri=%s ortam=%s", cfg.Port, cfg.DataDir, cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			configslog.Log.Fatal("Sunucu başlatılamadı", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	configslog.SLog.Info("Kapanış sinyali alındı, sunucu durduruluyor...")
	if err := app.Shutdown(); err != nil {
		configslog.Log.Error("Sunucu düzgün kapatılamadı", zap.Error(err))
	}
	configslog.SLog.Info("Sunucu durduruldu.")
}
