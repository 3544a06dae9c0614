package entities

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	MarkerBackendFile     = "file"
	MarkerBackendNATS     = "nats"
	MarkerBackendPostgres = "postgres"

	defaultMarkerPath    = "."
	defaultMarkerBucket  = "giteasync-markers"
	defaultConcurrency   = 4
	defaultListenAddress = ":8080"
	defaultRatePerMinute = 120
	defaultForgeType     = "gitea"
)

// Settings is the top-level configuration of giteasync.
type Settings struct {
	ForgeType     string                 `yaml:"forge_type"`
	ServerURL     string                 `yaml:"server_url"`
	CallbackURL   string                 `yaml:"callback_url"`
	WebhookSecret string                 `yaml:"webhook_secret"`
	StatusContext string                 `yaml:"status_context"`
	Proxy         *ProxySettings         `yaml:"proxy"`
	Credentials   map[string]Credentials `yaml:"credentials"`
	Markers       MarkerSettings         `yaml:"markers"`
	Discovery     DiscoverySettings      `yaml:"discovery"`
	Listen        ListenSettings         `yaml:"listen"`
	Navigators    []Navigator            `yaml:"navigators"`
	Owners        []SourceOwner          `yaml:"owners"`
}

// MarkerSettings selects the organization hook marker backend.
type MarkerSettings struct {
	Backend string `yaml:"backend"` // "file", "nats", "postgres"
	Path    string `yaml:"path"`    // file backend root directory
	URL     string `yaml:"url"`     // NATS server or PostgreSQL DSN
	Bucket  string `yaml:"bucket"`  // NATS KV bucket
}

// DiscoverySettings tunes repository discovery.
type DiscoverySettings struct {
	Concurrency int `yaml:"concurrency"`
}

// ListenSettings configures the HTTP endpoint of the serve command.
type ListenSettings struct {
	Address       string `yaml:"address"`
	RatePerMinute int    `yaml:"rate_per_minute"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads, resolves and validates the configuration file at path.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.WebhookSecret = resolveSecret(settings.WebhookSecret)
	for id, creds := range settings.Credentials {
		creds.Password = resolveSecret(creds.Password)
		settings.Credentials[id] = creds
	}
	if settings.Proxy != nil {
		settings.Proxy.Password = resolveSecret(settings.Proxy.Password)
	}
	settings.Markers.URL = resolveSecret(settings.Markers.URL)

	if prepareErr := settings.Prepare(); prepareErr != nil {
		return nil, prepareErr
	}
	return &settings, nil
}

// Prepare applies defaults, validates the settings and compiles every discovery filter.
func (s *Settings) Prepare() error {
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return err
	}

	for i := range s.Navigators {
		navigator := &s.Navigators[i]
		filter, err := NewDiscoveryFilter(navigator.Includes, navigator.Excludes, navigator.Criteria)
		if err != nil {
			return fmt.Errorf("navigators[%d]: %w", i, err)
		}
		navigator.Filter = filter
	}
	for i := range s.Owners {
		for j := range s.Owners[i].Sources {
			source := &s.Owners[i].Sources[j]
			filter, err := NewBranchFilter(source.Includes, source.Excludes, source.Criteria)
			if err != nil {
				return fmt.Errorf("owners[%d].sources[%d]: %w", i, j, err)
			}
			source.Filter = filter
		}
	}
	return nil
}

// HookURL is the callback address registered in forge webhooks, or empty when no callback URL is set.
func (s *Settings) HookURL() string {
	if s.CallbackURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.CallbackURL, "/") + "/" + WebhookPath
}

// Connection returns the forge connection of owner/repository authenticated with credentialsID.
func (s *Settings) Connection(owner, repository, credentialsID string) ForgeConnection {
	conn := ForgeConnection{
		ServerURL:  s.ServerURL,
		Owner:      owner,
		Repository: repository,
		Proxy:      s.Proxy,
	}
	if creds, ok := s.Credentials[credentialsID]; ok && credentialsID != "" {
		conn.Credentials = &creds
	}
	return conn
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{".", ".config", "configs"}
	if homeDir != "" {
		locations = append(locations, homeDir, filepath.Join(homeDir, ".config"))
	}

	patterns := []string{
		".giteasync.yaml",
		".giteasync.yml",
		"giteasync.yaml",
		"giteasync.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

func (s *Settings) applyDefaults() {
	if s.ForgeType == "" {
		s.ForgeType = defaultForgeType
	}
	if s.StatusContext == "" {
		s.StatusContext = DefaultStatusContext
	}
	if s.Markers.Backend == "" {
		s.Markers.Backend = MarkerBackendFile
	}
	if s.Markers.Path == "" {
		s.Markers.Path = defaultMarkerPath
	}
	if s.Markers.Bucket == "" {
		s.Markers.Bucket = defaultMarkerBucket
	}
	if s.Discovery.Concurrency <= 0 {
		s.Discovery.Concurrency = defaultConcurrency
	}
	if s.Listen.Address == "" {
		s.Listen.Address = defaultListenAddress
	}
	if s.Listen.RatePerMinute <= 0 {
		s.Listen.RatePerMinute = defaultRatePerMinute
	}
	for i := range s.Owners {
		for j := range s.Owners[i].Sources {
			if s.Owners[i].Sources[j].Kind == "" {
				s.Owners[i].Sources[j].Kind = SourceKindGitea
			}
		}
	}
}

// resolveSecret expands ${VAR} references and, if the result names an existing
// file, reads the secret from that file.
func resolveSecret(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func validateURL(field, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return &ConfigurationError{Field: field, Err: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ConfigurationError{Field: field, Err: fmt.Errorf("unsupported scheme %q in %q", parsed.Scheme, raw)}
	}
	if parsed.Host == "" {
		return &ConfigurationError{Field: field, Err: fmt.Errorf("missing host in %q", raw)}
	}
	return nil
}

func (s *Settings) validate() error {
	if s.ServerURL == "" {
		return errors.New("server_url is required")
	}
	if err := validateURL("server_url", s.ServerURL); err != nil {
		return err
	}
	if s.CallbackURL != "" {
		if err := validateURL("callback_url", s.CallbackURL); err != nil {
			return err
		}
	}

	switch s.Markers.Backend {
	case MarkerBackendFile:
	case MarkerBackendNATS, MarkerBackendPostgres:
		if s.Markers.URL == "" {
			return fmt.Errorf("markers.url is required for the %q backend", s.Markers.Backend)
		}
	default:
		return fmt.Errorf("markers.backend %q is not supported", s.Markers.Backend)
	}

	for i, navigator := range s.Navigators {
		if navigator.Owner == "" {
			return fmt.Errorf("navigators[%d].owner is required", i)
		}
		s.checkCredentials(fmt.Sprintf("navigators[%d]", i), navigator.CredentialsID)
	}

	names := make(map[string]bool, len(s.Owners))
	for i, owner := range s.Owners {
		if owner.Name == "" {
			return fmt.Errorf("owners[%d].name is required", i)
		}
		if names[owner.Name] {
			return fmt.Errorf("owners[%d].name %q is duplicated", i, owner.Name)
		}
		names[owner.Name] = true

		for j, source := range owner.Sources {
			if source.Kind != SourceKindGitea && source.Kind != SourceKindGit {
				return fmt.Errorf("owners[%d].sources[%d].kind %q is not supported", i, j, source.Kind)
			}
			if source.Owner == "" || source.Repository == "" {
				return fmt.Errorf("owners[%d].sources[%d] requires owner and repository", i, j)
			}
			s.checkCredentials(fmt.Sprintf("owners[%d].sources[%d]", i, j), source.CredentialsID)
		}
	}

	return nil
}

func (s *Settings) checkCredentials(field, credentialsID string) {
	if credentialsID == "" {
		return
	}
	if _, ok := s.Credentials[credentialsID]; !ok {
		logger.Warnf("%s references unknown credentials %q, requests will be anonymous", field, credentialsID)
	}
}
