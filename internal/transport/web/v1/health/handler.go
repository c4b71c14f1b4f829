package health

import (
	"context"
	"log"
	"net/http"
	"time"

	v1 "github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1"
)

type Pinger interface {
	Ping(context.Context) error
}

type Handler struct {
	Log     *log.Logger
	DB      Pinger
	Cache   Pinger
	Storage Pinger
}

// Liveness does not depend on any backing service.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	v1.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness pings the database, the cache and the blob store.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]Pinger{"db": h.DB, "cache": h.Cache, "storage": h.Storage}
	for name, p := range checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			h.Log.Printf("%s ping failed: %v", name, err)
			v1.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable", "failed": name,
			})
			return
		}
	}
	v1.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
