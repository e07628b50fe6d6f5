package main // entry point

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/procedure-booking-bot/internal/config"
	"github.com/iliyamo/procedure-booking-bot/internal/database"
	"github.com/iliyamo/procedure-booking-bot/internal/dispatch"
	"github.com/iliyamo/procedure-booking-bot/internal/handler"
	"github.com/iliyamo/procedure-booking-bot/internal/limiter"
	"github.com/iliyamo/procedure-booking-bot/internal/notify"
	"github.com/iliyamo/procedure-booking-bot/internal/queue"
	"github.com/iliyamo/procedure-booking-bot/internal/repository"
	"github.com/iliyamo/procedure-booking-bot/internal/router"
	"github.com/iliyamo/procedure-booking-bot/internal/service"
	"github.com/iliyamo/procedure-booking-bot/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.InitSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	// Columns added after the first release; EnsureColumn is a no-op when
	// the column already exists.
	if err := database.EnsureColumn(ctx, db, "users", "is_blocked", "TINYINT(1) NOT NULL DEFAULT 0"); err != nil {
		cancel()
		log.Fatalf("schema upgrade: %v", err)
	}
	if err := database.EnsureColumn(ctx, db, "applications", "group_message_ref", "BIGINT NULL"); err != nil {
		cancel()
		log.Fatalf("schema upgrade: %v", err)
	}
	cancel()

	// Sessions live in Redis when it is reachable, in memory otherwise.
	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute
	var sessions session.Store
	if rdb := config.NewRedisClient(); rdb != nil {
		sessions = session.NewRedisStore(rdb, sessionTTL)
	} else {
		log.Println("sessions: redis unavailable, using in-memory store")
		sessions = session.NewMemoryStore(sessionTTL)
	}

	// Denials go to the audit queue; delivery is best effort and must not
	// slow down request handling.
	lim := limiter.New(rlCfg, func(actorID int64, at time.Time) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ev := queue.RateLimitDeniedEvent{ActorID: actorID, DeniedAt: at.UTC().Format(time.RFC3339)}
			if err := service.PublishRateLimitDenied(ctx, rlCfg.AuditQueue, ev); err != nil {
				log.Printf("audit: publish denial for %d failed: %v", actorID, err)
			}
		}()
	})
	if rlCfg.Enabled {
		go func() {
			if err := queue.StartAuditConsumer(rlCfg.AuditQueue); err != nil {
				log.Printf("audit: consumer stopped: %v", err)
			}
		}()
	}

	userRepo := repository.NewUserRepo(db)
	eventRepo := repository.NewEventRepo(db)
	appRepo := repository.NewApplicationRepo(db)

	notifier := notify.New(notify.NewLogTransport(), cfg.ChannelChat, cfg.GroupChat, cfg.BotUsername)
	eventSvc := service.NewEventService(eventRepo, notifier)
	appSvc := service.NewApplicationService(appRepo, eventRepo, userRepo, notifier)

	d := dispatch.New(lim, sessions, eventSvc, appSvc, notifier, cfg.AdminID)

	// Sweep elapsed events once a minute so announcements stop accepting
	// applications after their slot has passed.
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for range t.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if _, err := eventSvc.CloseElapsed(ctx); err != nil {
				log.Printf("sweep: %v", err)
			}
			cancel()
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterWebhook(e, handler.NewWebhookHandler(cfg.WebhookToken, d))
	router.RegisterAdmin(e, handler.NewAuthHandler(cfg), handler.NewAdminHandler(eventSvc, appSvc), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
