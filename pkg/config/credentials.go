package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Credential sources.
const (
	SourceEnv  = "env"
	SourceFile = "file"
)

// Credentials is resolved once at startup and passed explicitly to the
// fetch client.
type Credentials struct {
	APIKey string
	// Source is SourceEnv, SourceFile, or empty when no key was found.
	Source string
}

// Present reports whether a key was found.
func (c Credentials) Present() bool {
	return c.APIKey != ""
}

// ResolveCredentials looks up api.KeyEnv in the process environment first,
// then in api.EnvFile under root. A missing env file is not an error.
// getenv is usually os.Getenv.
func ResolveCredentials(root string, api API, getenv func(string) string) (Credentials, error) {
	if api.KeyEnv == "" {
		return Credentials{}, nil
	}

	if key := cleanValue(getenv(api.KeyEnv)); key != "" {
		return Credentials{APIKey: key, Source: SourceEnv}, nil
	}

	if api.EnvFile == "" {
		return Credentials{}, nil
	}

	envPath := api.EnvFile
	if !filepath.IsAbs(envPath) {
		envPath = filepath.Join(root, envPath)
	}

	values, err := godotenv.Read(envPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("read %s: %w", envPath, err)
	}

	if key := cleanValue(values[api.KeyEnv]); key != "" {
		return Credentials{APIKey: key, Source: SourceFile}, nil
	}
	return Credentials{}, nil
}

// cleanValue trims whitespace and one layer of matching quotes.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			v = strings.TrimSpace(v[1 : len(v)-1])
		}
	}
	return v
}
