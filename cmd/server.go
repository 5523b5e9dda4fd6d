package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cspmconsole/api"
	"cspmconsole/config"
	"cspmconsole/core"
	"cspmconsole/logger"

	"github.com/spf13/cobra"
)

var serverPortFlag string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the console API server",
	Run: func(cmd *cobra.Command, args []string) {
		port := serverPortFlag
		if port == "" {
			port = config.AppConfig.Server.Port
		}

		if config.AppConfig.Auth.JWTSecret == "" {
			config.AppConfig.Auth.JWTSecret = randomSecret()
			logger.Warn("auth.jwt_secret not configured; using an ephemeral secret for this run")
		}

		router := api.NewRouter()
		server := &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var scheduler *core.Scheduler
		if config.AppConfig.Scheduler.Enabled {
			interval := time.Duration(config.AppConfig.Scheduler.IntervalSeconds) * time.Second
			scheduler = core.NewScheduler(interval)
			go scheduler.Start(ctx)
		} else {
			logger.Info("Scheduler disabled by configuration")
		}

		go func() {
			logger.Info("API server listening on :%s", port)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("Server: ListenAndServe error: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutdown signal received")

		cancel()
		if scheduler != nil {
			scheduler.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server: graceful shutdown failed: %v", err)
		}
		logger.Info("Server stopped")
	},
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Fatal("Server: cannot generate session secret: %v", err)
	}
	return hex.EncodeToString(b)
}

func init() {
	serverCmd.Flags().StringVarP(&serverPortFlag, "port", "p", "", "port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
