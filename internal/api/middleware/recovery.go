package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/gomoku-go/internal/api/apierr"
	"github.com/mcoot/gomoku-go/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// A panic inside an engine search answers with a JSON 500 and logs the match id.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler, matchAttrs)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
