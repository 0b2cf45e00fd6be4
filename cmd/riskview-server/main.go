package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/riskview/riskview/internal/config"
	"github.com/riskview/riskview/internal/platform/middleware"
	"github.com/riskview/riskview/internal/upstream"
	"github.com/riskview/riskview/internal/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "riskview-server",
		Short: "Clinical risk assessment web frontend",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(schemaCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Fetch and print the form field schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, _ := cmd.Flags().GetString("model")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client := upstream.NewClient(cfg.PredictionAPIURL, time.Duration(cfg.UpstreamTimeout)*time.Second)
			ctx := context.Background()

			var resp *upstream.SchemaResponse
			switch model {
			case "cox":
				resp, err = client.CoxSchema(ctx)
			case "bayesian":
				resp, err = client.BayesianSchema(ctx)
			default:
				return fmt.Errorf("--model must be \"cox\" or \"bayesian\", got %q", model)
			}
			if err != nil {
				return fmt.Errorf("failed to fetch schema: %w", err)
			}

			fields := resp.SchemaFields()
			fmt.Printf("Schema for model: %s (%d fields)\n", model, len(fields))
			fmt.Printf("%-25s %-35s %-8s %s\n", "NAME", "LABEL", "KIND", "DEFAULT")
			fmt.Println("------------------------- ----------------------------------- -------- --------------------")
			for _, f := range fields {
				fmt.Printf("%-25s %-35s %-8s %s\n", f.Name, f.Label, f.Kind, f.DefaultString())
			}
			if len(resp.Targets) > 0 {
				fmt.Printf("\nTargets (%d):\n", len(resp.Targets))
				for _, t := range resp.Targets {
					fmt.Printf("  %s\n", t)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("model", "cox", "Schema to fetch: cox or bayesian")
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Prediction API client with schema/model-info cache
	client := upstream.NewClient(cfg.PredictionAPIURL, time.Duration(cfg.UpstreamTimeout)*time.Second)
	api := upstream.NewCachedClient(client, time.Duration(cfg.SchemaCacheTTL)*time.Second)
	logger.Info().Str("upstream", cfg.PredictionAPIURL).Msg("prediction API configured")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}
	e.Renderer = renderer

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())

	// Pages
	handler := web.NewHandler(api, logger)
	handler.RegisterRoutes(e)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		var srvErr error
		if cfg.TLSEnabled {
			srvErr = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			srvErr = e.Start(addr)
		}
		if srvErr != nil && srvErr != http.ErrServerClosed {
			logger.Fatal().Err(srvErr).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
