package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// AppDirName is the directory under the user config dir holding settings
// and the credential file.
const AppDirName = "backdrop-downloader"

// ImageSizes are the backdrop sizes served by the image host.
var ImageSizes = []string{"w300", "w780", "w1280", "original"}

// Settings holds all configuration options.
//
// Values are read from the JSON settings file first; environment variables
// override them.
type Settings struct {
	// Credential settings
	APIKey         string `json:"api_key,omitempty" env:"TMDB_API_KEY"`
	CredentialFile string `json:"credential_file" env:"BACKDROP_CREDENTIAL_FILE"`

	// Provider settings
	APIBaseURL            string  `json:"api_base_url" env:"BACKDROP_API_URL"`
	ImageBaseURL          string  `json:"image_base_url" env:"BACKDROP_IMAGE_URL"`
	ImageSize             string  `json:"image_size" env:"BACKDROP_IMAGE_SIZE"`
	RequestTimeoutSeconds float64 `json:"request_timeout_seconds" env:"BACKDROP_REQUEST_TIMEOUT"`

	// Download settings
	DownloadsPath              string  `json:"downloads_path" env:"BACKDROP_DOWNLOADS_PATH"`
	ResizeMaxWidth             int     `json:"resize_max_width" env:"BACKDROP_RESIZE_MAX_WIDTH"`
	DownloadIdleTimeoutSeconds float64 `json:"download_idle_timeout_seconds" env:"BACKDROP_DOWNLOAD_IDLE_TIMEOUT"`

	// Workflow settings
	LanguageMenu bool `json:"language_menu" env:"BACKDROP_LANGUAGE_MENU"`

	// Logging settings
	LogFile string `json:"log_file" env:"BACKDROP_LOG_FILE"`
	Debug   bool   `json:"debug" env:"BACKDROP_DEBUG"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		CredentialFile: filepath.Join(configDir(), "api_key"),

		APIBaseURL:            "https://api.themoviedb.org/3",
		ImageBaseURL:          "https://image.tmdb.org/t/p/",
		ImageSize:             "original",
		RequestTimeoutSeconds: 15,

		DownloadsPath:              ".",
		ResizeMaxWidth:             0,
		DownloadIdleTimeoutSeconds: 30,

		LanguageMenu: true,
	}
}

// DefaultPath returns the settings file location: BACKDROP_CONFIG when set,
// otherwise settings.json in the user config directory.
func DefaultPath() string {
	if p := os.Getenv("BACKDROP_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configDir(), "settings.json")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, AppDirName)
}

// Load reads settings from a JSON file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// LoadWithEnv loads the settings file at path and applies environment
// overrides, then validates the result.
func LoadWithEnv(path string) (*Settings, error) {
	settings, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// ApplyEnv overrides fields whose environment variable is set.
func (s *Settings) ApplyEnv() error {
	if err := env.Parse(s); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Validate checks settings that would otherwise fail later at request time.
func (s *Settings) Validate() error {
	if s.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	if s.ImageBaseURL == "" {
		return fmt.Errorf("image_base_url must not be empty")
	}
	if !validImageSize(s.ImageSize) {
		return fmt.Errorf("image_size %q is not one of %s", s.ImageSize, strings.Join(ImageSizes, ", "))
	}
	if s.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %v", s.RequestTimeoutSeconds)
	}
	if s.DownloadIdleTimeoutSeconds < 0 {
		return fmt.Errorf("download_idle_timeout_seconds must not be negative, got %v", s.DownloadIdleTimeoutSeconds)
	}
	if s.ResizeMaxWidth < 0 {
		return fmt.Errorf("resize_max_width must not be negative, got %d", s.ResizeMaxWidth)
	}
	return nil
}

func validImageSize(size string) bool {
	for _, s := range ImageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// RequestTimeout returns the per-request API timeout.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds * float64(time.Second))
}

// DownloadIdleTimeout returns how long a download may go without receiving
// data. Zero disables the limit.
func (s *Settings) DownloadIdleTimeout() time.Duration {
	return time.Duration(s.DownloadIdleTimeoutSeconds * float64(time.Second))
}

// Save writes settings to a JSON file. The API key is never written.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	out := *s
	out.APIKey = ""
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
