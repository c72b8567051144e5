package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guildforms/forms-bot/src/api"
	"github.com/guildforms/forms-bot/src/bot"
	"github.com/guildforms/forms-bot/src/config"
	"github.com/guildforms/forms-bot/src/data"
)

func main() {
	db := data.MustMySQL(config.GetMySQLDSN())

	cfg := config.Load(db)
	if cfg.Token == "" {
		log.Fatal("DISCORD_TOKEN not set in database or environment")
	}

	rdb := data.MustRedis(cfg.RedisURL)

	b, err := bot.New(cfg, db, rdb)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if err := b.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	var httpSrv *http.Server
	if cfg.APIPort != "" {
		if cfg.JWTSecret == "" {
			log.Fatal("JWT_SECRET must be set when API_PORT is enabled")
		}
		httpSrv = &http.Server{
			Addr:    ":" + cfg.APIPort,
			Handler: api.New(cfg, db, rdb),
		}
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("http: %v", err)
			}
		}()
		log.Printf("Admin API listening on %s", cfg.APIPort)
	}

	log.Println("Forms bot is running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	if httpSrv != nil {
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = httpSrv.Shutdown(shutCtx)
		cancel()
	}

	b.Stop()
	log.Println("Forms bot stopped gracefully")
}
