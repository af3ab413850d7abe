package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration reads a config duration such as "300ms" or "10s".
// Empty input and parse failures yield fallback; failures are logged.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Unusable duration, using fallback")
		return fallback
	}
	return d
}
