// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Supported key files: anthropic-api-key, openai-api-key,
// openrouter-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvNames maps each key file name to the environment variable consulted
// when the file is absent.
var EnvNames = map[string]string{
	"anthropic-api-key":  "ANTHROPIC_API_KEY",
	"openai-api-key":     "OPENAI_API_KEY",
	"openrouter-api-key": "OPENROUTER_API_KEY",
	"gemini-api-key":     "GEMINI_API_KEY",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged at Warn and skipped. A nil logger discards.
func Load(dir string, logger *logrus.Logger) (map[string]string, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.WithFields(logrus.Fields{"secret": name, "error": err}).Warn("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// MergeEnv fills keys missing from secrets with the matching environment
// variable from lookup. Values already loaded from files win.
func MergeEnv(secrets map[string]string, lookup func(string) (string, bool)) map[string]string {
	for name, env := range EnvNames {
		if _, ok := secrets[name]; ok {
			continue
		}
		if v, ok := lookup(env); ok && strings.TrimSpace(v) != "" {
			secrets[name] = strings.TrimSpace(v)
		}
	}
	return secrets
}
