package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcoope02/annotation-scripts/config"
	"github.com/jcoope02/annotation-scripts/internal/client"
)

// session bundles the selected context and an authenticated API client.
type session struct {
	context config.Context
	client  *client.Client
}

func loadConfiguration() (*config.Configuration, error) {
	path := configFile
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	return config.Load(path)
}

// newSession resolves the context, acquires a token source and builds the
// API client. Auth failures surface here, before any expansion or
// submission is attempted.
func newSession(ctx context.Context, logger *slog.Logger) (*session, error) {
	configuration, err := loadConfiguration()
	if err != nil {
		return nil, err
	}
	selected, err := configuration.Context(contextName)
	if err != nil {
		return nil, err
	}
	baseURL := selected.BaseURL(client.DefaultBaseURL)
	if selected.SelfHosted() {
		logger.Info("using self-hosted instance " + baseURL)
	}
	credentials := client.Credentials{
		ClientID:     selected.ClientID,
		ClientSecret: selected.ClientSecret,
		Organization: selected.Organization,
		AccessToken:  selected.AccessToken,
		BaseURL:      baseURL,
	}
	organization, err := client.ResolveOrganization(credentials)
	if err != nil {
		return nil, err
	}
	source, err := client.TokenSource(ctx, credentials, organization)
	if err != nil {
		return nil, err
	}
	apiClient, err := client.New(logger, client.Configuration{
		BaseURL:      baseURL,
		Organization: organization,
		Timeout:      time.Minute,
	}, source)
	if err != nil {
		return nil, err
	}
	return &session{
		context: selected,
		client:  apiClient,
	}, nil
}
