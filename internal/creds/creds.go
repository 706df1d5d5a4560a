// Package creds assembles the OAuth2 token source used to read spreadsheets.
// Two credential families are supported: a Google service account (JWT flow
// from discrete key fields) or a Google user account (client id/secret plus
// a long-lived refresh token). Exactly one family must be configured.
package creds

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// Scopes are read-only: this program never writes back to a spreadsheet.
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets.readonly",
	"https://www.googleapis.com/auth/drive.readonly",
}

// Config carries both credential families; the populated one is used. The
// user account wins when both are set, matching the established CLI
// behavior.
type Config struct {
	ServiceAccountPrivateKeyID string
	ServiceAccountPrivateKey   string // PKCS#8 PEM
	ServiceAccountClientEmail  string
	ServiceAccountClientID     string

	UserClientID     string
	UserClientSecret string
	UserRefreshToken string
}

// TokenSource builds the token source for the configured credential family.
func (c Config) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	switch {
	case c.UserClientID != "":
		if c.UserClientSecret == "" || c.UserRefreshToken == "" {
			return nil, fmt.Errorf("user account credentials need client secret and refresh token")
		}
		conf := &oauth2.Config{
			ClientID:     c.UserClientID,
			ClientSecret: c.UserClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       Scopes,
		}
		return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.UserRefreshToken}), nil

	case c.ServiceAccountClientID != "":
		if c.ServiceAccountPrivateKey == "" || c.ServiceAccountClientEmail == "" {
			return nil, fmt.Errorf("service account credentials need private key and client email")
		}
		conf := &jwt.Config{
			Email:        c.ServiceAccountClientEmail,
			PrivateKey:   []byte(c.ServiceAccountPrivateKey),
			PrivateKeyID: c.ServiceAccountPrivateKeyID,
			Scopes:       Scopes,
			TokenURL:     google.JWTTokenURL,
		}
		return conf.TokenSource(ctx), nil
	}
	return nil, fmt.Errorf("need either credentials for a google user account or for a google service account")
}
