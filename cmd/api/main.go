package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pet-nutrition-platform/internal/platform/logger"
	"pet-nutrition-platform/internal/platform/token"
	"pet-nutrition-platform/internal/platform/uploads"
	"pet-nutrition-platform/internal/router"
)

func main() {
	// .env es opcional; en producción todo viene del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var tokens *token.Manager
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		tokens = token.NewManager(secret, token.DefaultTTL)
	} else {
		log.Warn("JWT_SECRET no definido, arrancando en modo dev", nil)
	}

	r := router.NewRouter(router.Options{
		Tokens: tokens,
		Files:  uploads.NewStore(os.Getenv("STATIC_DIR")),
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // subidas de comprobantes y fotos
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
