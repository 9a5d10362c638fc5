package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestGoogleVerifier_Verify(t *testing.T) {
	v := NewGoogleVerifier("client-123")
	v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		assert.Equal(t, "client-123", audience)
		if token != "good" {
			return nil, errors.New("bad signature")
		}
		return &idtoken.Payload{
			Subject: "sub-1",
			Claims: map[string]interface{}{
				"email":   "asha@example.com",
				"name":    "Asha",
				"picture": "https://example.com/a.png",
			},
		}, nil
	}

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &Identity{Subject: "sub-1", Email: "asha@example.com", Name: "Asha", Picture: "https://example.com/a.png"}, id)

	_, err = v.Verify(context.Background(), "forged")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad signature")
}

func TestGoogleVerifier_MissingEmail(t *testing.T) {
	v := NewGoogleVerifier("client-123")
	v.validate = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Subject: "sub-2", Claims: map[string]interface{}{}}, nil
	}
	_, err := v.Verify(context.Background(), "any")
	assert.ErrorIs(t, err, ErrNoEmail)
}

func TestGoogleVerifier_NoClientID(t *testing.T) {
	_, err := NewGoogleVerifier("").Verify(context.Background(), "any")
	assert.Error(t, err)
}
