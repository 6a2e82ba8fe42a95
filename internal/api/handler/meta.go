package handler

import (
	"net/http"

	"github.com/mcoot/gomoku-go/internal/api/response"
)

// Health handles GET /api/v1/health
func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Difficulties handles GET /api/v1/difficulties
func Difficulties(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{"difficulties": response.Difficulties()})
}
