package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gomoku-go/internal/middleware"
)

// Logging creates access-log middleware for the API. Requests routed to a match carry its id.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, matchAttrs)
}

func matchAttrs(r *http.Request) []slog.Attr {
	if id, ok := mux.Vars(r)["id"]; ok {
		return []slog.Attr{slog.String("match_id", id)}
	}
	return nil
}
