// Package google verifies Google sign-in credentials sent by the storefront.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var ErrRejected = errors.New("google credential rejected")

// Identity is the subset of the Google profile the storefront needs.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// Verifier checks a Google ID token and returns the identity inside it.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// IDTokenVerifier validates ID tokens issued to the storefront's OAuth client.
type IDTokenVerifier struct {
	audience string
	validate validateFunc
}

func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{audience: clientID, validate: idtoken.Validate}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, raw string) (Identity, error) {
	payload, err := v.validate(ctx, raw, v.audience)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return identityFromClaims(payload.Subject, payload.Claims)
}

func identityFromClaims(subject string, claims map[string]interface{}) (Identity, error) {
	id := Identity{Subject: strings.TrimSpace(subject)}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	id.EmailVerified, _ = claims["email_verified"].(bool)
	id.Email = strings.ToLower(strings.TrimSpace(id.Email))

	if id.Subject == "" || id.Email == "" {
		return Identity{}, fmt.Errorf("%w: missing subject or email", ErrRejected)
	}
	if !id.EmailVerified {
		return Identity{}, fmt.Errorf("%w: email not verified", ErrRejected)
	}
	if id.Name == "" {
		id.Name = strings.SplitN(id.Email, "@", 2)[0]
	}
	return id, nil
}
