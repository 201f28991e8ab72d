// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

// Package main is the council portal service that manages membership,
// agenda proposals, meetings and published minutes over NATS JetStream.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/handlers"
	"github.com/infracouncil/council-portal-service/internal/infrastructure/email"
	"github.com/infracouncil/council-portal-service/internal/infrastructure/messaging"
	"github.com/infracouncil/council-portal-service/internal/logging"
	"github.com/infracouncil/council-portal-service/internal/service"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Initialize tracing (no-op unless an OTLP endpoint is configured)
	shutdownTelemetry, err := setupTelemetry(ctx, env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up telemetry")
		os.Exit(1)
	}

	// Initialize email service (independent of NATS)
	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		return
	}

	// Setup NATS connection
	natsConn, err := setupNATS(env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Get the object store for meeting result images.
	objectStore, err := getObjectStore(ctx, natsConn, env.AssetBaseURL)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting object store")
		return
	}

	// Initialize services
	serviceConfig := service.ServiceConfig{
		AssetBaseURL: env.AssetBaseURL,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	userService := service.NewUserService(
		repos.User,
		messageBuilder,
		messageBuilder,
		emailService,
		serviceConfig,
	)
	proposalService := service.NewProposalService(
		repos.Proposal,
		repos.User,
		messageBuilder,
		serviceConfig,
	)
	meetingService := service.NewMeetingService(
		repos.Meeting,
		repos.User,
		messageBuilder,
		emailService,
		serviceConfig,
	)
	meetingResultService := service.NewMeetingResultService(
		repos.MeetingResult,
		repos.Meeting,
		repos.User,
		meetingService,
		objectStore,
		messageBuilder,
		serviceConfig,
	)
	// Start the live view engine over the repositories' watch streams.
	liveViewService := service.NewLiveViewService(
		repos.Meeting.Watch,
		repos.MeetingResult.Watch,
		repos.User.Watch,
		repos.Proposal.Watch,
	)
	if err := liveViewService.Start(); err != nil {
		slog.With(logging.ErrKey, err).Error("error starting live views")
		return
	}

	// Initialize handlers
	portalHandlers := handlers.NewPortalHandlers(
		userService,
		meetingService,
		proposalService,
		liveViewService,
	)

	// Readiness covers every service, including the ones only reached
	// through the portal's library surface.
	ready := func() bool {
		return portalHandlers.HandlerReady() &&
			meetingResultService.ServiceReady()
	}

	httpServer := setupHTTPServer(flags, ready, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubscriptions(ctx, portalHandlers, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	// Close the live feeds before draining NATS so watcher teardown is not
	// reported as a feed failure.
	liveViewService.Close()

	gracefulShutdown(ctx, httpServer, natsConn, shutdownTelemetry, &gracefulCloseWG, cancel)
}

// gracefulShutdown stops the HTTP listener, drains the NATS connection so
// in-flight handlers finish, and flushes pending telemetry.
func gracefulShutdown(
	ctx context.Context,
	httpServer *http.Server,
	natsConn *nats.Conn,
	shutdownTelemetry func(context.Context) error,
	gracefulCloseWG *sync.WaitGroup,
	cancel context.CancelFunc,
) {
	slog.InfoContext(ctx, "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	// The http listener goroutine holds one wait group slot.
	gracefulCloseWG.Done()

	// Draining closes the connection once pending messages are handled; the
	// closed handler releases the NATS wait group slot.
	if !natsConn.IsClosed() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			natsConn.Close()
		}
	}

	cancel()
	gracefulCloseWG.Wait()

	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down telemetry")
	}
}

// setupEmailService picks the SMTP sender when outbound mail is configured
// and falls back to the no-op sender otherwise.
func setupEmailService(env environment) (domain.EmailService, error) {
	if env.SMTP.Host == "" {
		slog.Info("SMTP not configured, email notifications disabled")
		return email.NewNoOpService(), nil
	}
	return email.NewSMTPService(email.SMTPConfig{
		Host:     env.SMTP.Host,
		Port:     env.SMTP.Port,
		From:     env.SMTP.From,
		Username: env.SMTP.Username,
		Password: env.SMTP.Password,
	})
}
