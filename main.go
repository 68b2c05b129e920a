package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"life-quest-system/handlers"
	"life-quest-system/middleware"
	"life-quest-system/models"
	"life-quest-system/services"
	"life-quest-system/utils"
	"life-quest-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — avatars are the largest upload
	})

	// GLOBAL: only Gateway requests allowed (webhooks exempt, signature-verified)
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Session-Token, X-Service-Token, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.Mission{},
		&models.BossEncounter{},
		&models.PurchaseRecord{},
		&models.GuildPost{},
		&models.MemberProfile{},
		&models.JournalEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Content generator is optional: without an API key every surface falls
	// back to the static catalogs.
	var generator services.ContentGenerator
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gen, err := services.NewGeminiGenerator(ctx, apiKey, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatal("failed to initialize content generator:", err)
		}
		generator = gen
	} else {
		log.Println("GEMINI_API_KEY not set — AI content disabled, static catalogs only")
	}

	progressionService := services.NewProgressionService(db)
	refreshService := services.NewRefreshService(db, generator)
	missionService := services.NewMissionService(db)
	unlockService := services.NewUnlockService(db)
	mentorService := services.NewMentorService(db, generator)
	guildService := services.NewGuildService(db)
	paymentService := services.NewPaymentService(db)

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	questServiceToken := os.Getenv("QUEST_SERVICE_TOKEN")
	if questServiceToken == "" {
		log.Fatal("QUEST_SERVICE_TOKEN environment variable not set")
	}
	authClient := services.NewAuthServiceClient(authServiceURL, questServiceToken)

	// Member directory mirror for guild feed display names
	profileServiceURL := os.Getenv("PROFILE_SERVICE_URL")
	if profileServiceURL == "" {
		log.Fatal("PROFILE_SERVICE_URL environment variable not set")
	}
	memberSync := workers.NewMemberSyncWorker(db, profileServiceURL, "/api/v1/public/profiles", questServiceToken)

	go func() {
		log.Println("Starting Member Directory Sync Worker...")
		memberSync.Start(ctx)
	}()

	// Subscription reconciliation safety net behind the webhooks
	entitlementSync := workers.NewEntitlementSyncClient(db, paymentService)
	go workers.PollSubscriptions(ctx, entitlementSync, 60*time.Second)

	refreshService.StartRefreshScheduler()

	handlers.SetupProfileRoutes(app, progressionService, refreshService)
	handlers.SetupMissionRoutes(app, missionService, progressionService, refreshService)
	handlers.SetupSkillRoutes(app, unlockService, progressionService)
	handlers.SetupGuidanceRoutes(app, mentorService, progressionService, refreshService)
	handlers.SetupGuildRoutes(app, guildService, progressionService, authClient)
	handlers.SetupPaymentRoutes(app, paymentService, progressionService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("Server running on http://localhost:5300")
	log.Println("Member directory sync running")
	log.Println("Subscription reconciliation running (every 60s)")
	log.Println("Nightly refresh scheduler running (00:05 UTC)")
	log.Printf("CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
