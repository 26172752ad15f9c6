// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	goahttp "goa.design/goa/v3/http"
	"golang.org/x/time/rate"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/constants"
)

// isAvailabilitySubmission matches POST /meetings/{uid}/availability.
func isAvailabilitySubmission(r *http.Request) bool {
	return r.Method == http.MethodPost &&
		strings.HasPrefix(r.URL.Path, "/meetings/") &&
		strings.HasSuffix(r.URL.Path, "/availability")
}

// newHandler builds the routed handler with its middleware chain.
func newHandler(env environment, api *MeetingPollsAPI) http.Handler {
	mux := goahttp.NewMuxer()
	api.Mount(mux)

	var handler http.Handler = mux

	// Add HTTP middleware
	// Note: Order matters - RequestIDMiddleware should come first in the chain,
	// so it should be the last middleware added to the handler since it is executed in reverse order.
	limiter := middleware.NewClientRateLimiter(rate.Limit(env.AvailabilityLimit), env.AvailabilityBurst)
	handler = middleware.RateLimitMiddleware(limiter, isAvailabilitySubmission)(handler)
	handler = middleware.BodyLimitMiddleware(middleware.DefaultMaxBodyBytes)(handler)
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = middleware.AuthorizationMiddleware()(handler)

	if len(env.CORSAllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   env.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "If-Match", constants.RequestIDHeader},
			ExposedHeaders:   []string{constants.EtagHeader, constants.RequestIDHeader},
			AllowCredentials: true,
		}).Handler(handler)
	}

	return otelhttp.NewHandler(handler, "meeting-poll-api",
		otelhttp.WithFilter(func(r *http.Request) bool { return !middleware.IsHealthCheck(r) }),
	)
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, env environment, api *MeetingPollsAPI, gracefulCloseWG *sync.WaitGroup) *http.Server {
	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           newHandler(env, api),
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
