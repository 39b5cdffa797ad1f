package config

import (
	"os"
	"strings"
	"time"
)

// Getenv returns the trimmed value of k, or d when it is unset or blank.
func Getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

// GetenvDuration parses k with time.ParseDuration. Malformed or non-positive
// values fall back to d.
func GetenvDuration(k string, d time.Duration) time.Duration {
	v := Getenv(k, "")
	if v == "" {
		return d
	}
	parsed, err := time.ParseDuration(v)
	if err != nil || parsed <= 0 {
		return d
	}
	return parsed
}

// GetenvBool parses k as a boolean (1/0, true/false, yes/no, on/off); anything else yields d.
func GetenvBool(k string, d bool) bool {
	switch strings.ToLower(Getenv(k, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return d
	}
}
