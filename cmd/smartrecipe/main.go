package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartrecipe/internal/api"
	"smartrecipe/internal/chatbot"
	"smartrecipe/internal/config"
	"smartrecipe/internal/database"
	"smartrecipe/internal/handlers"
	"smartrecipe/internal/logger"
	"smartrecipe/internal/recognition"
	"smartrecipe/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const serviceName = "smartrecipe"

var rootCmd = &cobra.Command{
	Use:          serviceName,
	Short:        "SmartRecipe backend: recipes, grocery lists, food memories and image lookup",
	SilenceUsage: true,
}

func main() {
	logger.SetGlobal(logger.New(serviceName, os.Getenv("LOG_LEVEL")))

	rootCmd.AddCommand(serveCmd(), migrateCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.SetGlobal(logger.New(serviceName, cfg.LogLevel))
	return cfg, nil
}

func serveCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !skipMigrations {
				if err := database.MigrateUp(cfg.Database.DSN()); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply pending migrations on startup")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return database.MigrateUp(cfg.Database.DSN())
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg.Database.DSN(), steps)
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	recipes := database.NewRecipeRepository(db)

	hub := websocket.NewHub()
	hub.SetSubscribeCheck(handlers.RecipeSubscriptions(recipes))
	go hub.Run(ctx)

	limiter := chatbot.NewRateLimiter(cfg.Chatbot.RateLimit, cfg.Chatbot.RateWindow)
	go pruneLimiter(ctx, limiter, cfg.Chatbot.RateWindow)

	var lens recognition.Lens
	if cfg.RecipeLens.URL != "" {
		lens = recognition.NewLensClient(cfg.RecipeLens.URL, cfg.RecipeLens.Timeout)
	}
	corpus := recognition.LoadCorpus(cfg.Recognition.CorpusPath, log.Logger)
	recognizer := recognition.NewService(lens, recognition.LocalRecognizer{}, corpus, log.Logger)

	router := api.SetupRouter(api.Services{
		Users:      database.NewUserRepository(db),
		Recipes:    recipes,
		Grocery:    database.NewGroceryRepository(db),
		Memories:   database.NewMemoryRepository(db),
		DB:         db,
		Recognizer: recognizer,
		Limiter:    limiter,
		Hub:        hub,
	}, cfg)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Int("recipes", corpus.Len()).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("Server exited")
	return nil
}

// pruneLimiter drops expired chatbot windows so idle users do not pile up.
func pruneLimiter(ctx context.Context, limiter *chatbot.RateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune()
		}
	}
}
