package httpapi

import (
	"net/http"

	"jobhunter/internal/config"
)

type ConfigHandler struct {
	Cfg config.Config
}

// Get exposes the effective configuration plus what validation had to
// say about it. Secrets never live in the config, so nothing is
// redacted here.
func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, v := config.NormalizeAndValidate(h.Cfg)
	writeJSON(w, map[string]any{
		"config":     cfg,
		"validation": v,
	})
}
