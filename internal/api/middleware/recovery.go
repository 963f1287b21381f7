package middleware

import (
	"log/slog"
	"net/http"

	"github.com/soval/gemgrid/internal/api/apierr"
	"github.com/soval/gemgrid/internal/middleware"
)

// Recovery creates panic recovery middleware that responds with the
// API's JSON error envelope
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
