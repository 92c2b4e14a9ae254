// Package env reads typed configuration values from the process environment.
// Malformed values fall back to the default; only RequireString fails hard.
package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func RequireString(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		panic(fmt.Sprintf("environment variable %q is required", key))
	}

	return val
}

func String(key, def string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	return val
}

func Int(key string, def int) int {
	val, ok := lookupTrimmed(key)
	if !ok {
		return def
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}

	return n
}

func Bool(key string, def bool) bool {
	val, ok := lookupTrimmed(key)
	if !ok {
		return def
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}

	return b
}

func Duration(key string, def time.Duration) time.Duration {
	val, ok := lookupTrimmed(key)
	if !ok {
		return def
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}

	return d
}

func lookupTrimmed(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}

	return strings.TrimSpace(val), true
}
