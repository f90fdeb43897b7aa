package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/config"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/handler"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/service/ai"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/service/speech"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/service/tutor"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize answer service: %v", err)
	}
	log.Println("answer service initialized")

	transcriber := speech.NewWhisperTranscriber(cfg.Speech)

	synthesizer, err := speech.NewGeminiSynthesizer(ctx, cfg.Speech)
	if err != nil {
		log.Fatalf("failed to initialize synthesis service: %v", err)
	}
	log.Println("speech services initialized")

	turnService := tutor.NewService(
		transcriber,
		aiService,
		synthesizer,
		time.Duration(cfg.Speech.Timeout)*time.Second,
	)

	router := handler.NewRouter(turnService)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("AI tutor backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
