// Package config loads the immutable process configuration from the
// environment. The struct is built once in main and passed by reference
// into the handler layer; it is never mutated after startup.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Config carries everything the service needs at runtime.
type Config struct {
	// Addr is the listen address of the HTTP surface.
	Addr string

	// DirectoryURL is the base URL of the SCA platform's management API.
	DirectoryURL string
	// UserKey is the administrative credential sent with every remote call.
	UserKey string
	// GlobalToken scopes account-wide calls (product listing, full delete).
	GlobalToken string
	// InviterEmail is recorded by the platform as the inviting user on
	// every create-user call.
	InviterEmail string

	// LogPath, when set, tees the JSON log stream to a file.
	LogPath string

	// OrgCharsToReplace / OrgCharReplacement configure the organization
	// name transform. An empty OrgCharsToReplace means the identity
	// transform.
	OrgCharsToReplace  string
	OrgCharReplacement string

	// RequestTimeout bounds the remote-call sequence of a single request.
	RequestTimeout time.Duration
}

// Load reads the configuration from the environment. Any missing required
// value is an error; the process must not start serving without it.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:               envOr("ORGSYNC_ADDR", ":8080"),
		DirectoryURL:       strings.TrimRight(os.Getenv("ORGSYNC_WS_URL"), "/"),
		UserKey:            os.Getenv("ORGSYNC_WS_USER_KEY"),
		GlobalToken:        os.Getenv("ORGSYNC_WS_GLOBAL_TOKEN"),
		InviterEmail:       os.Getenv("ORGSYNC_INVITER_EMAIL"),
		LogPath:            os.Getenv("ORGSYNC_LOG_PATH"),
		OrgCharsToReplace:  os.Getenv("ORGSYNC_ORG_CHARS_TO_REPLACE"),
		OrgCharReplacement: os.Getenv("ORGSYNC_ORG_CHAR_REPLACEMENT"),
		RequestTimeout:     defaultRequestTimeout,
	}

	required := map[string]string{
		"ORGSYNC_WS_URL":          cfg.DirectoryURL,
		"ORGSYNC_WS_USER_KEY":     cfg.UserKey,
		"ORGSYNC_WS_GLOBAL_TOKEN": cfg.GlobalToken,
		"ORGSYNC_INVITER_EMAIL":   cfg.InviterEmail,
	}
	var missing []string
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	if raw := os.Getenv("ORGSYNC_REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid ORGSYNC_REQUEST_TIMEOUT %q", raw)
		}
		cfg.RequestTimeout = d
	}

	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
