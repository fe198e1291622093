package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	er "github.com/mcorbin/corbierror"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Credentials is one context from the configuration store, ready for the
// token exchange.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Organization string
	AccessToken  string
	BaseURL      string
}

// organizationTransport injects the Organization header the platform
// requires on the token endpoint and on every API call.
type organizationTransport struct {
	organization string
	base         http.RoundTripper
}

func (t *organizationTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Organization", t.organization)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// ResolveOrganization returns the organization identifier for a context:
// the configured value first, then the m2m profile of a previously stored
// access token, then the SLOCTL_ORGANIZATION environment variable.
func ResolveOrganization(credentials Credentials) (string, error) {
	if credentials.Organization != "" {
		return credentials.Organization, nil
	}
	if credentials.AccessToken != "" {
		if organization, ok := DecodeOrganization(credentials.AccessToken); ok {
			return organization, nil
		}
	}
	if organization := os.Getenv("SLOCTL_ORGANIZATION"); organization != "" {
		return organization, nil
	}
	return "", er.New("missing organization in context, set it in the configuration or in SLOCTL_ORGANIZATION", er.Forbidden, true)
}

// DecodeOrganization extracts the organization from the m2mProfile claim of
// an access token. The token is not verified: only this one claim is read,
// as a fallback when the configuration omits the organization.
func DecodeOrganization(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return "", false
	}
	var claims struct {
		M2MProfile struct {
			Organization string `json:"organization"`
		} `json:"m2mProfile"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", false
	}
	if claims.M2MProfile.Organization == "" {
		return "", false
	}
	return claims.M2MProfile.Organization, true
}

// TokenSource builds a reusable bearer token source for a context. The
// platform's token endpoint is a client-credentials exchange with basic
// client authentication plus the Organization header.
func TokenSource(ctx context.Context, credentials Credentials, organization string) (oauth2.TokenSource, error) {
	if credentials.ClientID == "" || credentials.ClientSecret == "" {
		return nil, er.New("missing clientId or clientSecret in context", er.Forbidden, true)
	}
	config := &clientcredentials.Config{
		ClientID:     credentials.ClientID,
		ClientSecret: credentials.ClientSecret,
		TokenURL:     strings.TrimSuffix(credentials.BaseURL, "/") + "/api/accessToken",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &organizationTransport{
			organization: organization,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	return config.TokenSource(ctx), nil
}
