package env

import (
	"os"
	"strconv"
	"strings"
)

// Prefix namespaces every variable the service reads.
const Prefix = "MENUFLOW_"

// Get returns MENUFLOW_<key>, then the bare key (platform variables such as
// PORT or LOG_FORMAT), then fallback.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(Prefix + key)); val != "" {
		return val
	}
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// Bool reads a boolean with Get semantics; unparsable values yield fallback.
func Bool(key string, fallback bool) bool {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return val
}
