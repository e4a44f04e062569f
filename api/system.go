package api

import (
	"fmt"
	"net/http"

	"github.com/seobright/careers/internal/config"
	"github.com/seobright/careers/internal/store"
)

type SystemHandler struct {
	store *store.Store
	cfg   *config.Config
}

func NewSystemHandler(st *store.Store, cfg *config.Config) *SystemHandler {
	return &SystemHandler{store: st, cfg: cfg}
}

func (h *SystemHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"message": "Hello from the careers backend!"}, http.StatusOK)
}

func (h *SystemHandler) HelloHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"message": "Hello from the backend API!"}, http.StatusOK)
}

func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"ok","service":"careers"}`)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","buildTime":"%s"}`, version, buildTime)
	}
}

// TestHandler reports best-effort connectivity info about the backing store.
func (h *SystemHandler) TestHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"backend":           "running",
		"database":          "not available",
		"database_url":      "not set",
		"database_name":     "not set",
		"connection_status": "not connected",
		"collections":       []string{},
	}

	if h.cfg != nil {
		if h.cfg.DatabaseURL != "" {
			resp["database_url"] = "set"
		}
		if h.cfg.DatabaseName != "" {
			resp["database_name"] = "set"
		}
	}

	if h.store != nil {
		names, err := h.store.Collections(r.Context())
		if err != nil {
			resp["database"] = "error: " + truncate(err.Error(), 50)
		} else {
			resp["database"] = "connected"
			resp["connection_status"] = "connected"
			if len(names) > 10 {
				names = names[:10]
			}
			if names == nil {
				names = []string{}
			}
			resp["collections"] = names
		}
	}

	writeJSON(w, resp, http.StatusOK)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
