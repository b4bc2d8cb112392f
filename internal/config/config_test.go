package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Files != nil {
		t.Errorf("Files = %v, want nil", cfg.Files)
	}
	if cfg.Page.URL != "" || cfg.Page.Source != "" {
		t.Errorf("Page = %+v, want empty", cfg.Page)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}
	if cfg.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", cfg.Timeout(), DefaultTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				if err != nil && !strings.Contains(err.Error(), "test.field") {
					t.Errorf("error %q does not name the field", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "https page", mutate: func(c *Config) { c.Page.URL = "https://example.com" }},
		{name: "file page", mutate: func(c *Config) { c.Page.URL = "file:///tmp/index.html" }},
		{name: "relative page url", mutate: func(c *Config) { c.Page.URL = "index.html" }, wantErr: ErrInvalidValue},
		{name: "long page url", mutate: func(c *Config) { c.Page.URL = "https://" + strings.Repeat("a", MaxURLLength) }, wantErr: ErrFieldTooLong},
		{name: "long title", mutate: func(c *Config) { c.Page.Title = strings.Repeat("t", MaxTitleLength+1) }, wantErr: ErrFieldTooLong},
		{name: "long browser bin", mutate: func(c *Config) { c.Browser.Bin = strings.Repeat("b", MaxPathLength+1) }, wantErr: ErrFieldTooLong},
		{name: "bad timeout", mutate: func(c *Config) { c.Browser.Timeout = "soon" }, wantErr: ErrInvalidValue},
		{name: "negative timeout", mutate: func(c *Config) { c.Browser.Timeout = "-1s" }, wantErr: ErrInvalidValue},
		{name: "empty timeout", mutate: func(c *Config) { c.Browser.Timeout = "" }},
		{name: "uppercase level", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: ErrInvalidValue},
		{name: "json format", mutate: func(c *Config) { c.Log.Format = "json" }},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Browser.Timeout = "1500ms"
	if got := cfg.Timeout(); got != 1500*time.Millisecond {
		t.Errorf("Timeout() = %v, want 1.5s", got)
	}

	cfg.Browser.Timeout = ""
	if got := cfg.Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout() = %v, want default", got)
	}
}

func TestConfig_FileEntries(t *testing.T) {
	t.Run("unwraps file objects", func(t *testing.T) {
		cfg := &Config{Files: []any{
			"a.js",
			map[string]any{"file": "b.css"},
			map[string]any{"path": "c.js"},
			map[string]any{"file": 7},
			uint64(42),
		}}

		got, ok := cfg.FileEntries().([]any)
		if !ok {
			t.Fatalf("FileEntries() = %T, want []any", cfg.FileEntries())
		}
		if len(got) != 5 {
			t.Fatalf("len = %d, want 5", len(got))
		}
		if got[0] != "a.js" || got[1] != "b.css" {
			t.Errorf("entries = %v, want a.js and b.css first", got[:2])
		}
		if _, ok := got[2].(map[string]any); !ok {
			t.Errorf("entry without file key = %T, want map kept", got[2])
		}
		if _, ok := got[3].(map[string]any); !ok {
			t.Errorf("entry with non-string file = %T, want map kept", got[3])
		}
		if got[4] != uint64(42) {
			t.Errorf("numeric entry = %v, want kept", got[4])
		}
	})

	t.Run("does not modify source", func(t *testing.T) {
		src := []any{map[string]any{"file": "a.js"}}
		cfg := &Config{Files: src}
		_ = cfg.FileEntries()
		if _, ok := src[0].(map[string]any); !ok {
			t.Error("FileEntries() rewrote the decoded list")
		}
	})

	t.Run("non-list passes through", func(t *testing.T) {
		cfg := &Config{Files: "a.js"}
		if got := cfg.FileEntries(); got != "a.js" {
			t.Errorf("FileEntries() = %v, want a.js", got)
		}
	})

	t.Run("nil passes through", func(t *testing.T) {
		if got := (&Config{}).FileEntries(); got != nil {
			t.Errorf("FileEntries() = %v, want nil", got)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads manifest", func(t *testing.T) {
		path := writeConfig(t, "load.yaml", `page:
  url: "https://example.com"
browser:
  noSandbox: true
  timeout: "5s"
log:
  level: debug
files:
  - app.js
  - file: theme.css
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Page.URL != "https://example.com" {
			t.Errorf("Page.URL = %q", cfg.Page.URL)
		}
		if !cfg.Browser.NoSandbox {
			t.Error("Browser.NoSandbox = false, want true")
		}
		if cfg.Timeout() != 5*time.Second {
			t.Errorf("Timeout() = %v, want 5s", cfg.Timeout())
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
		}
		if cfg.Log.Format != DefaultLogFormat {
			t.Errorf("Log.Format = %q, want default kept", cfg.Log.Format)
		}
		entries, ok := cfg.FileEntries().([]any)
		if !ok || len(entries) != 2 || entries[0] != "app.js" || entries[1] != "theme.css" {
			t.Errorf("FileEntries() = %v, want [app.js theme.css]", cfg.FileEntries())
		}
	})

	t.Run("relative page source resolves against manifest", func(t *testing.T) {
		path := writeConfig(t, "load.yaml", "page:\n  source: host.md\n")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		want := filepath.Join(filepath.Dir(path), "host.md")
		if cfg.Page.Source != want {
			t.Errorf("Page.Source = %q, want %q", cfg.Page.Source, want)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown name returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("definitely-not-a-fileloader-config")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "invalid.yaml", "files: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		path := writeConfig(t, "strict.yaml", "filez:\n  - a.js\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		path := writeConfig(t, "bad.yaml", "log:\n  format: xml\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	paths := SearchPaths("site")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least the local candidates", paths)
	}
	if paths[0] != "site.yaml" || paths[1] != "site.yml" {
		t.Errorf("local candidates = %v, want site.yaml then site.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, appDir) {
			t.Errorf("user candidate %q not under %s", p, appDir)
		}
	}
}
