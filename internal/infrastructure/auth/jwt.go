// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth validates Heimdall-issued JWTs and extracts the principal.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
)

const (
	// PS256 is the default for Heimdall's JWT finalizer.
	signatureAlgorithm = validator.PS256
	defaultIssuer      = "heimdall"
	defaultAudience    = "lfx-v2-meeting-poll-service"
	defaultJWKSURL     = "http://heimdall:4457/.well-known/jwks"

	jwksCacheTTL = 5 * time.Minute
	clockSkew    = 5 * time.Second
)

// IJWTAuth parses a principal from a bearer token.
type IJWTAuth interface {
	ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error)
}

// HeimdallClaims contains extra custom claims we want to parse from the JWT
// token.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate provides additional middleware validation of any claims defined in
// HeimdallClaims.
func (c *HeimdallClaims) Validate(ctx context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuthConfig holds the JWT validation settings.
type JWTAuthConfig struct {
	// JWKSURL is the URL of the Heimdall JWKS endpoint.
	JWKSURL string
	// Audience is the expected token audience.
	Audience string
	// MockLocalPrincipal disables validation and returns this principal for
	// every token. Local development only.
	MockLocalPrincipal string
}

// JWTAuth validates Heimdall JWTs.
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

var _ IJWTAuth = (*JWTAuth)(nil)

// NewJWTAuth creates a JWTAuth, filling unset config fields with defaults.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, err
	}

	issuer, err := url.Parse(defaultIssuer)
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	customClaims := func() validator.CustomClaims {
		return &HeimdallClaims{}
	}

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		signatureAlgorithm,
		issuer.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(clockSkew),
	)
	if err != nil {
		return nil, err
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}

// ParsePrincipal extracts the principal from a JWT token.
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if j.config.MockLocalPrincipal != "" {
		logger.InfoContext(ctx, "JWT principal parsing disabled, returning mock principal",
			"principal", j.config.MockLocalPrincipal,
		)
		return j.config.MockLocalPrincipal, nil
	}

	if j.validator == nil {
		return "", domain.NewUnavailableError("JWT validator is not set up")
	}

	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

	parsedJWT, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		// Drop tertiary (and deeper) nested errors for security reasons. This is
		// using colons as an approximation for error nesting.
		errString := err.Error()
		if firstColon := strings.Index(errString, ":"); firstColon != -1 {
			if secondColon := strings.Index(errString[firstColon+1:], ":"); secondColon != -1 {
				errString = errString[:firstColon+1+secondColon]
			}
		}
		logger.WarnContext(ctx, "JWT validation failed", logging.ErrKey, errString)
		return "", domain.NewUnauthenticatedError("invalid bearer token", errors.New(errString))
	}

	claims, ok := parsedJWT.(*validator.ValidatedClaims)
	if !ok {
		logger.ErrorContext(ctx, "unexpected JWT claims type")
		return "", domain.NewInternalError("failed to get validated authorization claims")
	}

	customClaims, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		logger.ErrorContext(ctx, "unexpected custom claims type")
		return "", domain.NewInternalError("failed to get custom authorization claims")
	}

	return customClaims.Principal, nil
}
