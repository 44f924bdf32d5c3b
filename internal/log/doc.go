// Package log builds the slog loggers used by scopecrawl.
//
// Crawled URLs regularly carry session identifiers and tokens in their query
// strings (sid, jsessionid, token, ...). SecureHandler wraps any slog.Handler
// and masks them before a record is written:
//   - attributes whose key names a secret are replaced entirely
//   - URL-valued attributes keep their shape, with sensitive query
//     parameter values and userinfo passwords masked
//   - values that look like bearer tokens, JWTs or key material are replaced
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Warn("failed to parse page",
//	    "url", "http://www.ics.uci.edu/a?sid=42&page=2", // sid=***REDACTED***&page=2
//	)
package log
