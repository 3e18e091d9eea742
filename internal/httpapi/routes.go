package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/radar-overlay/internal/hub"
	"github.com/DoyleJ11/radar-overlay/internal/ws"
)

type Deps struct {
	Hub       *hub.Hub
	Journal   DiagnosticsReader // nil when journaling is off
	StaticDir string
	Shell     string
	Logger    *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	assets := http.FileServer(http.Dir(d.StaticDir))
	socket := ws.Handler(d.Hub, d.Logger)

	// The page opens its websocket against its own URL.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if ws.IsUpgrade(r) {
			socket(w, r)
			return
		}
		http.ServeFile(w, r, d.Shell)
	})
	r.Handle("/radars/*", assets)
	r.Handle("/icons/*", assets)

	r.Get("/healthz", Healthz)
	r.Get("/api/maps", Maps)
	r.Get("/api/diagnostics", Diagnostics(d.Journal, d.Logger))
	return r
}
