package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/psconsole/internal/metrics"
	"github.com/mcoot/psconsole/internal/middleware"
)

// Logging creates logging middleware for the web interface
func Logging(logger *slog.Logger, m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return middleware.Logging(logger, m)
}
