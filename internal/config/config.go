// Package config loads the per-user settings file.
//
// The file lives at ~/.config/latex_ocr/config.toml. When it does not exist a
// commented default is written first, so a fresh install always has a file
// for the user to put an API key into. Loading never mutates the result; the
// returned Config is threaded explicitly through the rest of the program.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

const (
	// DirEnv overrides the configuration directory.
	DirEnv = "LATEX_OCR_CONFIG_DIR"

	appDirName = "latex_ocr"
	fileName   = "config.toml"
)

// Providers understood by the chat package.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Defaults written to a freshly created config file.
const (
	DefaultImageDirectory = "~/Downloads"
	DefaultModel          = "claude-3-5-haiku-20241022"
	DefaultPrompt         = "Convert the following text to latex, if there is any latex. Only output latex code corresponding to the image, don't put anything else in the response. Don't nest in a code block either or preface with the words latex."
	DefaultProvider       = ProviderAnthropic
)

// requiredKeys must be present in every config file.
var requiredKeys = []string{"api_key", "image_directory", "model", "prompt"}

// Config is the parsed settings file.
type Config struct {
	APIKey         string `toml:"api_key"`
	ImageDirectory string `toml:"image_directory"`
	Model          string `toml:"model"`
	Prompt         string `toml:"prompt"`

	// Optional keys. Absent keys keep their defaults.
	Provider        string `toml:"provider"`
	MaxImageEdge    int    `toml:"max_image_edge"`
	StripCodeFences bool   `toml:"strip_code_fences"`
}

// Default returns the configuration a freshly written file decodes to.
func Default() *Config {
	return &Config{
		APIKey:          "",
		ImageDirectory:  DefaultImageDirectory,
		Model:           DefaultModel,
		Prompt:          DefaultPrompt,
		Provider:        DefaultProvider,
		MaxImageEdge:    0,
		StripCodeFences: true,
	}
}

// ImageDirectoryExpanded returns ImageDirectory with a leading ~ replaced by
// the user's home directory.
func (c *Config) ImageDirectoryExpanded() (string, error) {
	return ExpandHome(c.ImageDirectory)
}

// ExpandHome replaces a leading "~" or "~/" with the current user's home
// directory. Other paths, including "~user/...", are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Store reads and creates the config file inside a directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore returns a Store for the per-user configuration directory.
// Priority order:
//  1. LATEX_OCR_CONFIG_DIR environment variable
//  2. ~/.config/latex_ocr
//  3. the current directory, when no home directory can be determined
func DefaultStore() *Store {
	if dir := os.Getenv(DirEnv); dir != "" {
		return NewStore(dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		log.Warn().Err(err).Msg("No home directory, using current directory for config")
		return NewStore(".")
	}
	return NewStore(filepath.Join(home, ".config", appDirName))
}

// Path returns the full path to the config file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

// EnsureFile creates the config directory and the default config file if
// they do not exist yet. Directory creation errors are ignored; a failure to
// write the file surfaces when it is read.
func (s *Store) EnsureFile() {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Debug().Err(err).Str("dir", s.dir).Msg("Could not create config directory")
	}

	path := s.Path()
	if _, err := os.Stat(path); err == nil {
		return
	}

	if err := os.WriteFile(path, []byte(defaultFile), 0o600); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Failed to write default config")
		return
	}
	log.Info().Str("file", path).Msg("Wrote default config")
}

// Load returns the parsed config, writing the default file first when it is
// absent. It fails with *Error when the file cannot be read, is not valid
// TOML, or lacks a required key.
func (s *Store) Load() (*Config, error) {
	s.EnsureFile()

	path := s.Path()
	log.Debug().Str("file", path).Msg("Loading config")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Type: ErrTypeUnreadable, Path: path, Message: "cannot read config file", Err: err}
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, &Error{Type: ErrTypeMalformed, Path: path, Message: "invalid config file", Err: err}
	}

	for _, key := range requiredKeys {
		if !md.IsDefined(key) {
			return nil, &Error{Type: ErrTypeMissingField, Path: path, Message: fmt.Sprintf("missing field %q", key)}
		}
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Warn().Strs("keys", keys).Str("file", path).Msg("Ignoring unknown config keys")
	}

	if err := cfg.validate(); err != nil {
		return nil, &Error{Type: ErrTypeInvalidValue, Path: path, Message: err.Error()}
	}

	log.Debug().
		Str("file", path).
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Str("image_directory", cfg.ImageDirectory).
		Bool("has_api_key", strings.TrimSpace(cfg.APIKey) != "").
		Msg("Config loaded")

	return cfg, nil
}

// validate checks values the TOML decoder cannot. The API key is checked
// separately by the auth package so an empty key gets its own message.
func (c *Config) validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q (expected %q or %q)", c.Provider, ProviderAnthropic, ProviderGemini)
	}
	if c.MaxImageEdge < 0 {
		return fmt.Errorf("max_image_edge must not be negative, got %d", c.MaxImageEdge)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model must not be empty")
	}
	return nil
}

const defaultFile = `
# Anthropic API key (required)
api_key = ""

# Directory to scan for recent images
image_directory = "` + DefaultImageDirectory + `"

# Model to use for image processing
model = "` + DefaultModel + `"

# Prompt to send with the image
prompt = "` + DefaultPrompt + `"

# Optional settings
#
# API provider: "anthropic" or "gemini"
# provider = "anthropic"
#
# Downscale images whose longer edge exceeds this many pixels (0 = never)
# max_image_edge = 0
#
# Unwrap results the model wrapped in a markdown code block
# strip_code_fences = true
`
