package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jcoope02/annotation-scripts/internal/validator"
	er "github.com/mcorbin/corbierror"
	"golang.org/x/oauth2"
)

const acceptHeader = "application/json; version=v1alpha"

const DefaultBaseURL = "https://app.nobl9.com"

type Configuration struct {
	BaseURL      string        `validate:"required,url"`
	Organization string        `validate:"required"`
	Timeout      time.Duration `validate:"required"`
}

// Client talks to the platform API with bearer authentication. Tokens are
// acquired and refreshed through the oauth2 token source.
type Client struct {
	config Configuration
	http   *http.Client
	logger *slog.Logger
}

func New(logger *slog.Logger, config Configuration, source oauth2.TokenSource) (*Client, error) {
	err := validator.Validator.Struct(config)
	if err != nil {
		return nil, err
	}
	transport := &oauth2.Transport{
		Source: source,
		Base: &organizationTransport{
			organization: config.Organization,
		},
	}
	return &Client{
		config: config,
		http: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger: logger,
	}, nil
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, headers map[string]string, body any, out any) error {
	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("fail to serialize %s %s payload: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("fail to build request %s %s: %w", method, path, err)
	}
	if len(query) > 0 {
		request.URL.RawQuery = query.Encode()
	}
	request.Header.Set("Accept", acceptHeader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		request.Header.Set(key, value)
	}
	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("fail to execute request %s %s: %w", method, path, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			c.logger.Error(err.Error())
		}
	}()
	result, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("fail to read response for %s %s: %w", method, path, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return apiError(response.StatusCode, result)
	}
	if out != nil {
		if err := json.Unmarshal(result, out); err != nil {
			return fmt.Errorf("fail to decode response for %s %s: %w", method, path, err)
		}
	}
	return nil
}

// apiError maps an API error response onto the error types used across the
// repository, keeping the server message when one is present.
func apiError(status int, body []byte) error {
	message := serverMessage(body)
	if message == "" {
		message = fmt.Sprintf("the API returned status %d", status)
	}
	switch status {
	case http.StatusBadRequest:
		return er.New(message, er.BadRequest, true)
	case http.StatusUnauthorized, http.StatusForbidden:
		return er.New(message, er.Forbidden, true)
	case http.StatusNotFound:
		return er.New(message, er.NotFound, true)
	case http.StatusConflict:
		return er.New(message, er.Conflict, true)
	default:
		return fmt.Errorf("%s (status %d)", message, status)
	}
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Error) > 0 {
		var nested string
		if err := json.Unmarshal(payload.Error, &nested); err == nil {
			return nested
		}
		return string(payload.Error)
	}
	return strings.TrimSpace(string(body))
}
