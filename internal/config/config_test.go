package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ORGSYNC_WS_URL", "https://sca.example.com/api/v1.3")
	t.Setenv("ORGSYNC_WS_USER_KEY", "user-key")
	t.Setenv("ORGSYNC_WS_GLOBAL_TOKEN", "global-token")
	t.Setenv("ORGSYNC_INVITER_EMAIL", "admin@example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout)
	}
	if cfg.OrgCharsToReplace != "" {
		t.Fatalf("expected empty transform set, got %q", cfg.OrgCharsToReplace)
	}
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	setRequired(t)
	t.Setenv("ORGSYNC_WS_URL", "https://sca.example.com/api/v1.3/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if strings.HasSuffix(cfg.DirectoryURL, "/") {
		t.Fatalf("expected trimmed URL, got %q", cfg.DirectoryURL)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("ORGSYNC_WS_USER_KEY", "")
	t.Setenv("ORGSYNC_INVITER_EMAIL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing variables")
	}
	for _, name := range []string{"ORGSYNC_WS_USER_KEY", "ORGSYNC_INVITER_EMAIL"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q does not name %s", err, name)
		}
	}
}

func TestLoadRequestTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("ORGSYNC_REQUEST_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RequestTimeout != 90*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout)
	}

	t.Setenv("ORGSYNC_REQUEST_TIMEOUT", "-5s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}
}
