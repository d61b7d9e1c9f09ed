package app

import (
	"database/sql"
	"fmt"
	"log"

	"siteworks/internal/config"
	"siteworks/internal/handlers"
	"siteworks/internal/middleware"
	"siteworks/internal/pdf"
	"siteworks/internal/repositories"
	"siteworks/internal/routes"
	"siteworks/internal/services"
	"siteworks/internal/sms"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "siteworks/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	refreshRepo := repositories.NewRefreshTokenRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	partyRepo := repositories.NewPartyRepository(db)

	// === SMS gateway (provider picked by config) ===
	var gateway sms.Gateway
	switch cfg.SMS.Provider {
	case "mobizon":
		gateway = sms.NewMobizonGateway(cfg.SMS.APIKey, cfg.SMS.SenderID)
	default:
		gateway = sms.NewConsoleGateway()
	}
	if cfg.OTP.DevMode {
		log.Printf("[app] OTP dev mode is ON; bypass code accepted, codes logged")
	}

	// === Services ===
	otpService := services.NewOTPService(
		otpRepo, gateway,
		cfg.OTPTTL(), cfg.OTP.MaxAttempts,
		cfg.OTP.DevMode, cfg.OTP.BypassCode,
	)
	tokenService := services.NewTokenService(
		refreshRepo, userRepo,
		[]byte(cfg.JWT.Secret),
		cfg.AccessTTL(), cfg.RefreshTTL(),
	)
	alerter := services.NewTelegramAlerter(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	authService := services.NewAuthService(otpService, tokenService, userRepo, alerter)
	userService := services.NewUserService(userRepo)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	projectService := services.NewProjectService(projectRepo, userRepo, emailService)
	partyService := services.NewPartyService(partyRepo)

	reportGen := pdf.NewReportGenerator(cfg.Files.RootDir)

	// === Refresh-token transport (deployment policy, fixed at startup) ===
	var transport handlers.TokenTransport
	if cfg.Auth.RefreshTransport == "cookie" {
		transport = handlers.NewCookieTransport("/auth", int(cfg.RefreshTTL().Seconds()), true)
	} else {
		transport = handlers.NewBodyTransport()
	}

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService, transport)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, reportGen)
	partyHandler := handlers.NewPartyHandler(partyService)

	// === Maintenance sweep ===
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@hourly", func() {
		if _, err := otpService.CleanupExpired(); err != nil {
			log.Printf("[cron][otp-cleanup] failed: %v", err)
		}
		if n, err := tokenService.CleanupExpired(); err != nil {
			log.Printf("[cron][token-cleanup] failed: %v", err)
		} else if n > 0 {
			log.Printf("[cron][token-cleanup] removed=%d", n)
		}
	}); err != nil {
		log.Fatal("Failed to schedule cleanup: ", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		[]byte(cfg.JWT.Secret),
		authHandler,
		userHandler,
		projectHandler,
		partyHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
