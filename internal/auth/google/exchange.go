package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

// CodeExchanger trades an authorization code from the popup flow for an ID token.
type CodeExchanger struct {
	config *oauth2.Config
}

// NewCodeExchanger uses Google's endpoint. redirectURL is "postmessage" for the JS popup flow.
func NewCodeExchanger(clientID, clientSecret, redirectURL string) *CodeExchanger {
	return NewCodeExchangerWithEndpoint(clientID, clientSecret, redirectURL, googleoauth.Endpoint)
}

func NewCodeExchangerWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint) *CodeExchanger {
	return &CodeExchanger{config: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}}
}

// Exchange returns the id_token from the token response.
func (e *CodeExchanger) Exchange(ctx context.Context, code string) (string, error) {
	tok, err := e.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: code exchange: %v", ErrRejected, err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", fmt.Errorf("%w: token response has no id_token", ErrRejected)
	}
	return idToken, nil
}
