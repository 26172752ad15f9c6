// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the meeting poll API that provides a RESTful API for collecting
// availability and confirming meeting times, and handles NATS messages for the
// meeting poll service.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/infrastructure/calendar"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/utils"
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

	otelShutdown, err := utils.SetupOTelSDKWithConfig(ctx, utils.OTelConfigFromEnv())
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry SDK")
		os.Exit(1)
	}

	// Set up JWT validator needed by the authenticated routes.
	jwtAuth, err := setupJWTAuth(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		os.Exit(1)
	}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
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

	// Initialize services
	serviceConfig := service.ServiceConfig{
		SkipEtagValidation: env.SkipEtagValidation,
		LFXEnvironment:     env.LFXEnvironment,
		AppOrigin:          env.LFXAppOrigin,
		DefaultTimezone:    env.DefaultTimezone,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	authService := service.NewAuthService(jwtAuth)
	meetingPollService := service.NewMeetingPollService(
		repos.Meeting,
		messageBuilder,
		calendar.NewICSGenerator(),
		serviceConfig,
	)
	analysisService := service.NewAnalysisService(
		repos.Meeting,
		repos.Availability,
		messageBuilder,
		serviceConfig,
	)
	availabilityService := service.NewAvailabilityService(
		repos.Meeting,
		repos.Availability,
		analysisService,
	)

	// Initialize handlers
	meetingPollHandler := handlers.NewMeetingPollHandler(meetingPollService, analysisService)

	api := NewMeetingPollsAPI(
		authService,
		meetingPollService,
		availabilityService,
		analysisService,
		meetingPollHandler,
	)

	httpServer := setupHTTPServer(flags, env, api, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubcriptions(ctx, meetingPollHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel, otelShutdown)
}
