package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions *service.SessionService
	Profiles *service.ProfileService
	Venues   *service.VenueService
	Artists  *service.ArtistService
	Songs    *service.SongService

	CookieDomain   string
	SourceApp      domainauth.SourceApp
	RevokeOnLogout bool
	IsDev          bool
	Logger         *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	sessionHandlers := &SessionHandlers{
		Sessions:       services.Sessions,
		Profiles:       services.Profiles,
		SourceApp:      services.SourceApp,
		CookieDomain:   services.CookieDomain,
		RevokeOnLogout: services.RevokeOnLogout,
		Logger:         services.Logger,
	}
	registerSessionRoutes(mux, sessionHandlers, services.IsDev)

	// Catalog reads are public; writes need an admin session.
	adminOnly := func(hh http.Handler) http.Handler {
		if services.Sessions != nil {
			return RequireRole(services.Sessions, domainauth.RoleAdmin)(hh)
		}
		return hh
	}
	registerVenueRoutes(mux, &VenueHandlers{Svc: services.Venues}, adminOnly)
	registerArtistRoutes(mux, &ArtistHandlers{Svc: services.Artists}, adminOnly)
	registerSongRoutes(mux, &SongHandlers{Svc: services.Songs}, adminOnly)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerSessionRoutes(mux *http.ServeMux, h *SessionHandlers, isDev bool) {
	mux.HandleFunc("POST /api/sessionLogin", h.Login)
	mux.HandleFunc("GET /api/sessionCheck", h.Check)
	// Logout accepts GET too so a plain link can sign the user out.
	mux.HandleFunc("POST /api/sessionLogout", h.Logout)
	mux.HandleFunc("GET /api/sessionLogout", h.Logout)
	if isDev {
		mux.HandleFunc("GET /api/sessionLogin", h.LoginStatus)
	}
}

// crudRoutes registers standard CRUD routes for a resource base path.
// ReadMiddleware/WriteMiddleware apply per-verb when non-nil.
type crudRoutes struct {
	Base            string
	Create          http.HandlerFunc
	List            http.HandlerFunc
	GetByID         http.HandlerFunc
	Update          http.HandlerFunc
	Delete          http.HandlerFunc
	WriteMiddleware func(http.Handler) http.Handler
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	wrapWrite := func(h http.HandlerFunc) http.Handler {
		if cfg.WriteMiddleware != nil {
			return cfg.WriteMiddleware(h)
		}
		return h
	}
	mux.Handle("POST "+cfg.Base, wrapWrite(cfg.Create))
	mux.HandleFunc("GET "+cfg.Base, cfg.List)
	mux.HandleFunc("GET "+cfg.Base+"/{id}", cfg.GetByID)
	mux.Handle("PUT "+cfg.Base+"/{id}", wrapWrite(cfg.Update))
	mux.Handle("DELETE "+cfg.Base+"/{id}", wrapWrite(cfg.Delete))
}

func registerVenueRoutes(mux *http.ServeMux, h *VenueHandlers, adminOnly func(http.Handler) http.Handler) {
	registerCRUD(mux, crudRoutes{
		Base:            "/api/venues",
		Create:          h.Create,
		List:            h.List,
		GetByID:         h.GetByID,
		Update:          h.Update,
		Delete:          h.Delete,
		WriteMiddleware: adminOnly,
	})
}

func registerArtistRoutes(mux *http.ServeMux, h *ArtistHandlers, adminOnly func(http.Handler) http.Handler) {
	registerCRUD(mux, crudRoutes{
		Base:            "/api/artists",
		Create:          h.Create,
		List:            h.List,
		GetByID:         h.GetByID,
		Update:          h.Update,
		Delete:          h.Delete,
		WriteMiddleware: adminOnly,
	})
}

func registerSongRoutes(mux *http.ServeMux, h *SongHandlers, adminOnly func(http.Handler) http.Handler) {
	registerCRUD(mux, crudRoutes{
		Base:            "/api/songs",
		Create:          h.Create,
		List:            h.List,
		GetByID:         h.GetByID,
		Update:          h.Update,
		Delete:          h.Delete,
		WriteMiddleware: adminOnly,
	})
}
