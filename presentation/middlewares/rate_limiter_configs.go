package middlewares

import "time"

// StrictRateLimiterConfig guards sensitive operations like password changes
// and password verification.
func StrictRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 15,
	}
}

// ModerateRateLimiterConfig is the default for the admin API surface.
func ModerateRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 60,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 5,
	}
}

// LenientRateLimiterConfig suits read-heavy endpoints such as log listings.
func LenientRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 200,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 2,
	}
}
