package main

import (
	"log"
	"os"

	v1 "go_mes/api/v1"
	"go_mes/internal/auth"
	"go_mes/internal/cache"
	"go_mes/internal/config"
	"go_mes/internal/db"
	"go_mes/internal/export"
	"go_mes/internal/notify"
	"go_mes/internal/review"
	"go_mes/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Configuration loaded")

	logger := logrus.NewEntry(logrus.New())

	// 2. Initialize MySQL
	if err := db.InitMySQL(cfg.MySQL); err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(db.Get()); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
			os.Exit(1)
		}
		log.Println("✓ Schema migrated")
	}

	// 3. Initialize Redis
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	// 4. Initialize JWT signing
	auth.InitJWT(cfg.JWT.Secret)

	// 5. Start the mail dispatcher
	mailer := notify.NewMailer(cfg.Mail, logger)
	mailer.Start()
	defer mailer.Stop()

	// 6. Start the review reminder worker
	reminder := review.NewWorker(db.Get(), mailer, review.Config{
		Enabled:      cfg.ReviewReminder.Enabled,
		IntervalHour: cfg.ReviewReminder.IntervalHour,
		DesignTeam:   cfg.Mail.DesignTeam,
		CITeam:       cfg.Mail.CITeam,
	}, logger)
	reminder.Start()
	defer reminder.Stop()

	// 7. Wire services
	exporter, err := export.NewExporter(cfg.Export.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize exporter: %v", err)
		os.Exit(1)
	}

	approvalList := append(append([]string{}, cfg.Mail.DesignTeam...), cfg.Mail.CITeam...)
	deps := v1.Deps{
		DB:       db.Get(),
		Cfg:      cfg,
		Sheets:   service.NewSheetService(db.Get(), mailer, approvalList),
		Docs:     service.NewDocumentService(db.Get()),
		Certs:    service.NewCertService(db.Get(), mailer, cfg.Mail.CITeam),
		Exporter: exporter,
	}

	// 8. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	v1.SetupRouter(r, deps)

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	// Start server
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
