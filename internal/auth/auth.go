package auth

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// APIKeyEnv overrides the api_key value from the config file.
const APIKeyEnv = "LATEX_OCR_API_KEY"

// ResolveAPIKey returns the API key to use for this run.
// Priority order:
//  1. LATEX_OCR_API_KEY environment variable
//  2. api_key from the config file
//
// A key that is empty or only whitespace is treated as absent and yields a
// *ValidationError of type ErrTypeNoKey. The caller must not make any
// network call in that case.
func ResolveAPIKey(configKey, configPath string) (string, error) {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}

	if key := strings.TrimSpace(configKey); key != "" {
		log.Debug().Int("key_length", len(key)).Msg("Using API key from config file")
		return key, nil
	}

	log.Error().Str("file", configPath).Msg("API key is empty")
	return "", &ValidationError{
		Type:       ErrTypeNoKey,
		Message:    "API key is not set. Please add it to the configuration file.",
		ConfigPath: configPath,
	}
}
