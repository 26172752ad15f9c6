// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
)

const (
	// gracefulShutdownSeconds should be higher than NATS client
	// request timeout, and lower than the pod or liveness probe's
	// terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25

	// kvHistory is the number of revisions kept per key.
	kvHistory = 5
)

// repositories are the KV-backed stores used by the services.
type repositories struct {
	Meeting      *store.NatsMeetingRepository
	Availability *store.NatsAvailabilityRepository
}

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth(env environment) (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:            env.JWKSURL,
		Audience:           env.JWTAudience,
		MockLocalPrincipal: env.MockLocalPrincipal,
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupNATS connects to NATS. The connection counts towards gracefulCloseWG
// until it is closed; an unexpected close triggers a shutdown through done.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	slog.With("nats_url", env.NatsURL).Info("attempting to connect to NATS")

	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name("lfx-v2-meeting-poll-service"),
		nats.Timeout(env.NatsTimeout),
		nats.MaxReconnects(env.NatsMaxReconnect),
		nats.ReconnectWait(env.NatsReconnectWait),
		nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).Info("NATS connection established")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.With(logging.ErrKey, err).Warn("NATS disconnected")
			}
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if ctx.Err() != nil {
				// Shutdown is underway, so the close was expected.
				gracefulCloseWG.Done()
				return
			}
			slog.Error("NATS connection closed unexpectedly", logging.PriorityCritical())
			gracefulCloseWG.Done()
			done <- os.Interrupt
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, fmt.Errorf("error creating NATS client: %w", err)
	}

	return natsConn, nil
}

// keyValueStore returns the named bucket, creating it on first start.
func keyValueStore(ctx context.Context, js jetstream.JetStream, bucket string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, bucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, fmt.Errorf("error getting NATS KV bucket %s: %w", bucket, err)
	}

	slog.With("bucket", bucket).Info("creating NATS KV bucket")
	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  bucket,
		History: kvHistory,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating NATS KV bucket %s: %w", bucket, err)
	}
	return kv, nil
}

// getKeyValueStores opens the KV buckets and wraps them in repositories.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, fmt.Errorf("error creating JetStream context: %w", err)
	}

	meetingsKV, err := keyValueStore(ctx, js, store.KVStoreNameMeetingPolls)
	if err != nil {
		return nil, err
	}
	availabilityKV, err := keyValueStore(ctx, js, store.KVStoreNameMeetingPollAvailability)
	if err != nil {
		return nil, err
	}

	return &repositories{
		Meeting:      store.NewNatsMeetingRepository(meetingsKV),
		Availability: store.NewNatsAvailabilityRepository(availabilityKV),
	}, nil
}

// createNatsSubcriptions subscribes the handler to its request/reply subjects
// in the service queue group.
func createNatsSubcriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	slog.InfoContext(ctx, "subscribing to NATS subjects", "queue", models.MeetingPollsAPIQueue)

	subjects := []string{
		models.MeetingGetTitleSubject,
		models.MeetingGetAnalysisSubject,
	}
	for _, subject := range subjects {
		_, err := natsConn.QueueSubscribe(subject, models.MeetingPollsAPIQueue, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, messaging.NewNatsMessage(msg))
		})
		if err != nil {
			slog.ErrorContext(ctx, "error creating NATS queue subscription", logging.ErrKey, err, "subject", subject)
			return err
		}
	}

	return nil
}

// gracefulShutdown stops the HTTP server, drains NATS and waits for both to
// finish, bounded by gracefulShutdownSeconds.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc, otelShutdown func(context.Context) error) {
	slog.With("timeout_seconds", gracefulShutdownSeconds).Info("graceful shutdown started")

	// Cancel before draining so the NATS closed handler treats the close as expected.
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	go func() {
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
		// The listener goroutine does not decrement the wait group itself.
		gracefulCloseWG.Done()
	}()

	go func() {
		if natsConn.IsConnected() {
			slog.Debug("draining NATS connections")
			if err := natsConn.Drain(); err != nil {
				slog.With(logging.ErrKey, err).Error("error draining NATS connection")
				natsConn.Close()
			}
			return
		}
		natsConn.Close()
	}()

	finished := make(chan struct{})
	go func() {
		gracefulCloseWG.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		slog.Info("graceful shutdown completed")
	case <-ctx.Done():
		slog.Error("graceful shutdown timed out", logging.PriorityCritical())
	}

	if otelShutdown != nil {
		otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer otelCancel()
		if err := otelShutdown(otelCtx); err != nil {
			slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry")
		}
	}
}
