// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/infrastructure/auth"
)

type AuthService struct {
	auth auth.IJWTAuth
}

func NewAuthService(auth auth.IJWTAuth) *AuthService {
	return &AuthService{
		auth: auth,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AuthService) ServiceReady() bool {
	return s.auth != nil
}

// ParsePrincipal parses the Heimdall-authorized principal from the bearer token.
func (s *AuthService) ParsePrincipal(ctx context.Context, bearerToken string, logger *slog.Logger) (string, error) {
	if !s.ServiceReady() {
		return "", domain.NewUnavailableError("auth service not ready")
	}
	if bearerToken == "" {
		return "", domain.NewUnauthenticatedError("bearer token is required")
	}

	return s.auth.ParsePrincipal(ctx, bearerToken, logger)
}

// ParseOptionalPrincipal returns an empty principal when no token is sent.
// A token that is present but invalid is still an error.
func (s *AuthService) ParseOptionalPrincipal(ctx context.Context, bearerToken string, logger *slog.Logger) (string, error) {
	if bearerToken == "" {
		return "", nil
	}
	return s.ParsePrincipal(ctx, bearerToken, logger)
}
