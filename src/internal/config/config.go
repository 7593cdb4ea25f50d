package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"bibfix/src/internal/stringsx"
)

// File is the optional per-directory defaults file.
const File = ".bibfix.yaml"

// Environment variable names recognized by Load.
const (
	EnvRemoveNotes = "BIBFIX_REMOVE_NOTES"
	EnvBraceTitles = "BIBFIX_BRACE_TITLES"
	EnvLogLevel    = "BIBFIX_LOG_LEVEL"
)

// Settings are the tool defaults that command-line flags may override.
type Settings struct {
	RemoveNotes bool   `yaml:"remove_notes"`
	BraceTitles bool   `yaml:"brace_titles"`
	LogLevel    string `yaml:"log_level"`
}

// Load reads tool defaults from .bibfix.yaml, .env, and the environment, in
// rising precedence. Missing files are fine; a file that exists but does not
// parse is an error. godotenv never overwrites variables already present in
// the process environment.
func Load() (Settings, error) {
	var s Settings
	if b, err := os.ReadFile(File); err == nil {
		if err := yaml.Unmarshal(b, &s); err != nil {
			return Settings{}, fmt.Errorf("parse %s: %w", File, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("read %s: %w", File, err)
	}
	_ = godotenv.Load()
	if v, ok := envBool(EnvRemoveNotes); ok {
		s.RemoveNotes = v
	}
	if v, ok := envBool(EnvBraceTitles); ok {
		s.BraceTitles = v
	}
	s.LogLevel = stringsx.FirstNonEmpty(os.Getenv(EnvLogLevel), s.LogLevel)
	return s, nil
}

// envBool reads a boolean variable; unset, blank, or unparseable values
// leave the file default in place.
func envBool(key string) (bool, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v, true
}
