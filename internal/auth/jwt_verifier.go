package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms prevents algorithm confusion attacks
var allowedAlgorithms = []string{"RS256", "ES256"}

// JWKSVerifier implements JWTVerifier using public keys from a JWKS endpoint.
type JWKSVerifier struct {
	keyfunc jwt.Keyfunc
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// NewJWTVerifier creates a new JWT verifier that fetches public keys from the JWKS endpoint.
// The JWKS keys are cached and refreshed in the background until Close is called.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	v := newJWKSVerifier(jwks.Keyfunc, logger)
	v.cancel = cancel
	return v, nil
}

func newJWKSVerifier(kf jwt.Keyfunc, logger *slog.Logger) *JWKSVerifier {
	return &JWKSVerifier{keyfunc: kf, logger: logger}
}

// VerifyToken validates a JWT token and extracts the user claims.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, v.keyfunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, &domain.UnauthorizedError{Message: "invalid token"}
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		v.logger.Error("failed to extract claims from token")
		return nil, &domain.UnauthorizedError{Message: "invalid token"}
	}

	// The subject scopes every document query, so it must be a user id
	if _, err := claims.GetUserID(); err != nil {
		v.logger.Warn("token subject is not a user id", "sub", claims.Subject)
		return nil, &domain.UnauthorizedError{Message: "token subject is not a valid user id"}
	}

	return claims, nil
}

// Close stops the background JWKS refresh.
func (v *JWKSVerifier) Close() error {
	if v.cancel != nil {
		v.cancel()
	}
	v.logger.Info("JWT verifier closed")
	return nil
}
