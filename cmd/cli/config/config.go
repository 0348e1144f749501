package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL = "http://localhost:8080"
	tokenFileName = ".staybook_token"
)

// APIURL returns the base URL for the Staybook API.
// It can be overridden with the STAYBOOK_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("STAYBOOK_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// TokenPath is where the session token is kept between commands. STAYBOOK_TOKEN_FILE overrides it.
func TokenPath() string {
	if v := os.Getenv("STAYBOOK_TOKEN_FILE"); v != "" {
		return v
	}
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}

func SaveToken(token string) error {
	return os.WriteFile(TokenPath(), []byte(token), 0600)
}

// LoadToken returns the stored session token, or an error asking the user to log in.
func LoadToken() (string, error) {
	data, err := os.ReadFile(TokenPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.New("not logged in: run `staybook auth login` first")
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// RemoveToken deletes the stored token. It reports false when there was none.
func RemoveToken() (bool, error) {
	err := os.Remove(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
