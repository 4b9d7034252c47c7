package api

import (
	"net/http"
)

func NewRouter(h *APIHandler) http.Handler {

	mux := http.NewServeMux()

	mux.HandleFunc("POST /old/ats", h.HandleClassicalScore)

	mux.HandleFunc("POST /new/ats", h.HandleLLMScore)

	mux.HandleFunc("GET /scores/{id}", h.HandleGetScore)

	mux.HandleFunc("GET /healthz", h.HandleHealth)

	return mux
}
