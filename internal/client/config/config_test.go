package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	if c.ServerURL != "http://localhost:8080" {
		t.Fatalf("unexpected default server url: %s", c.ServerURL)
	}
	if c.PageSize != 12 {
		t.Fatalf("unexpected default page size: %d", c.PageSize)
	}
	if c.Debounce != 350*time.Millisecond {
		t.Fatalf("unexpected default debounce: %v", c.Debounce)
	}
}

func TestParseJSON_OverlaysOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	body := `{"server_url": "https://journal.example", "debounce": "200ms"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	oldArgs := os.Args
	os.Args = []string{"daybook", "-c", path}
	defer func() { os.Args = oldArgs }()

	c := &Config{}
	c.LoadDefaults()
	parseJSON(c)

	if c.ServerURL != "https://journal.example" {
		t.Fatalf("server url: %s", c.ServerURL)
	}
	if c.Debounce != 200*time.Millisecond {
		t.Fatalf("debounce: %v", c.Debounce)
	}
	if c.PageSize != 12 {
		t.Fatalf("page size should keep default, got %d", c.PageSize)
	}
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"daybook", "-s", "https://other.example", "-p", "24"}
	defer func() { os.Args = oldArgs }()

	c := &Config{}
	c.LoadDefaults()
	parseFlags(c)

	if c.ServerURL != "https://other.example" {
		t.Fatalf("server url: %s", c.ServerURL)
	}
	if c.PageSize != 24 {
		t.Fatalf("page size: %d", c.PageSize)
	}
}
