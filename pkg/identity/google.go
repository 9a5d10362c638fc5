// Package identity verifies federated sign-in tokens.
package identity

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Identity is what the provider asserts about the signed-in person.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// ErrNoEmail is returned when a verified token does not carry an email claim.
var ErrNoEmail = errors.New("identity token has no email claim")

// GoogleVerifier checks Google ID tokens issued for a single OAuth client.
type GoogleVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier creates a verifier for tokens whose audience is clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}
}

// Verify validates the token signature, expiry and audience and returns the asserted identity.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if v.clientID == "" {
		return nil, fmt.Errorf("google client ID is not configured")
	}
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate google id token: %w", err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(payload *idtoken.Payload) (*Identity, error) {
	id := &Identity{
		Subject: payload.Subject,
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if id.Email == "" {
		return nil, ErrNoEmail
	}
	if id.Name == "" {
		id.Name = id.Email
	}
	return id, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
