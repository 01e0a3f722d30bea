package helpers

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration reads a config duration such as "5m" or "12h". A blank value
// silently yields fallback; an unparsable or negative one is logged first.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		// global logger, this can run before logger.Configure
		log.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration in configuration, using fallback")
		return fallback
	}
	return d
}
