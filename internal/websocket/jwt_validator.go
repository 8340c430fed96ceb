package websocket

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrNotAMember is returned when the token's user has no membership in the
// requested workspace
var ErrNotAMember = errors.New("not a workspace member")

// MembershipChecker confirms that the external identity belongs to the workspace
type MembershipChecker interface {
	CheckMembership(authID string, workspaceID uuid.UUID) error
}

// CustomClaims contains the custom claims from the identity provider JWT
type CustomClaims struct{}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// JWTValidator validates bearer tokens for WebSocket connections and checks
// workspace membership before the upgrade
type JWTValidator struct {
	validator   *validator.Validator
	memberships MembershipChecker
}

// NewJWTValidator creates a new JWTValidator
func NewJWTValidator(domain, audience string, memberships MembershipChecker) (*JWTValidator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &JWTValidator{
		validator:   jwtValidator,
		memberships: memberships,
	}, nil
}

// ValidateToken validates a JWT token and confirms the subject is a member of
// the requested workspace
func (v *JWTValidator) ValidateToken(token string, workspaceID uuid.UUID) error {
	ctx := context.Background()

	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return ErrInvalidToken
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return ErrInvalidToken
	}

	authID := validatedClaims.RegisteredClaims.Subject

	if err := v.memberships.CheckMembership(authID, workspaceID); err != nil {
		return ErrNotAMember
	}

	return nil
}
