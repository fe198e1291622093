package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	er "github.com/mcorbin/corbierror"
	"github.com/spf13/viper"
)

// Context is one named set of credentials identifying a monitored
// organization or instance. URL is only set for self-hosted instances.
type Context struct {
	Name         string
	ClientID     string
	ClientSecret string
	Organization string
	AccessToken  string
	URL          string
}

// SelfHosted reports whether the context points at a custom instance
// instead of the default SaaS endpoint.
func (c Context) SelfHosted() bool {
	return c.URL != ""
}

func (c Context) BaseURL(fallback string) string {
	if c.URL != "" {
		return c.URL
	}
	return fallback
}

type Configuration struct {
	Contexts       []Context
	DefaultContext string
}

// DefaultPath returns the sloctl configuration location,
// ~/.config/nobl9/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("fail to resolve the home directory: %w", err)
	}
	return filepath.Join(home, ".config", "nobl9", "config.toml"), nil
}

// Load parses the TOML context store. Credential keys are accepted in both
// camelCase and snake_case, like sloctl writes them. Contexts are sorted by
// name so the listing shown to the user is deterministic.
func Load(path string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("fail to read configuration file %s: %w", path, err)
	}
	configuration := &Configuration{
		DefaultContext: v.GetString("defaultContext"),
	}
	for name := range v.GetStringMap("contexts") {
		sub := v.Sub("contexts." + name)
		if sub == nil {
			continue
		}
		context := Context{
			Name:         name,
			ClientID:     firstNonEmpty(sub.GetString("clientId"), sub.GetString("client_id")),
			ClientSecret: firstNonEmpty(sub.GetString("clientSecret"), sub.GetString("client_secret")),
			Organization: firstNonEmpty(sub.GetString("organization"), sub.GetString("org")),
			AccessToken:  sub.GetString("accessToken"),
			URL:          sub.GetString("url"),
		}
		configuration.Contexts = append(configuration.Contexts, context)
	}
	if len(configuration.Contexts) == 0 {
		return nil, er.Newf("no context found in %s", er.NotFound, true, path)
	}
	sort.Slice(configuration.Contexts, func(i, j int) bool {
		return configuration.Contexts[i].Name < configuration.Contexts[j].Name
	})
	return configuration, nil
}

// Context returns the named context, or the default one when name is empty.
// With a single context and no explicit selection, that context is used.
// Names are matched case-insensitively: the TOML layer lowercases table
// keys, and sloctl config files use mixed-case context names.
func (c *Configuration) Context(name string) (Context, error) {
	if name == "" {
		name = c.DefaultContext
	}
	if name == "" && len(c.Contexts) == 1 {
		return c.Contexts[0], nil
	}
	if name == "" {
		return Context{}, er.New("several contexts are configured, select one with --context", er.BadRequest, true)
	}
	for _, context := range c.Contexts {
		if strings.EqualFold(context.Name, name) {
			return context, nil
		}
	}
	return Context{}, er.Newf("context %s not found in the configuration", er.NotFound, true, name)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
