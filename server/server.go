package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/claripy/server/api"
	"github.com/dekarrin/claripy/server/dao"
	"github.com/dekarrin/claripy/server/middle"
	"github.com/dekarrin/claripy/server/tunas"
	"github.com/go-chi/chi/v5"
)

// Server is a fully-wired ClariPy HTTP API, ready to have ServeForever
// called on it. Use New to construct one.
type Server struct {
	router      chi.Router
	backend     tunas.Service
	tokenSecret []byte
}

// New connects to the databases described by cfg and assembles the router
// for the ClariPy HTTP API.
func New(cfg Config) (Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Server{}, fmt.Errorf("invalid config: %w", err)
	}

	users, hist, err := cfg.connect()
	if err != nil {
		return Server{}, err
	}

	backend := tunas.Service{DB: users, History: hist}

	a := api.API{
		Backend:     backend,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	defaultUser := dao.User{}

	required := middle.RequireAuth(users.Users(), cfg.TokenSecret, cfg.UnauthDelay(), defaultUser)
	optional := middle.OptionalAuth(users.Users(), cfg.TokenSecret, cfg.UnauthDelay(), defaultUser)

	r := chi.NewRouter()
	r.Use(middle.DontPanic())
	r.Route(api.PathPrefix, func(r chi.Router) {
		r.With(optional).Get("/info", a.HTTPGetInfo())

		r.Post("/login", a.HTTPCreateLogin())
		r.With(required).Delete("/login/{id}", a.HTTPDeleteLogin())

		r.With(required).Post("/tokens", a.HTTPCreateToken())

		r.With(optional).Post("/translate", a.HTTPCreateTranslation())
		r.With(optional).Get("/history", a.HTTPGetHistory())

		r.Group(func(r chi.Router) {
			r.Use(required)
			r.Get("/users", a.HTTPGetAllUsers())
			r.Post("/users", a.HTTPCreateUser())
			r.Get("/users/{id}", a.HTTPGetUser())
			r.Put("/users/{id}", a.HTTPUpdateUser())
			r.Delete("/users/{id}", a.HTTPDeleteUser())
		})
	})

	return Server{router: r, backend: backend, tokenSecret: cfg.TokenSecret}, nil
}

// CreateUser creates a new user account directly through the service layer,
// bypassing HTTP and auth. Used by claripyd at startup to seed the initial
// admin account.
func (s Server) CreateUser(ctx context.Context, username, password, email string, role dao.Role) (dao.User, error) {
	return s.backend.CreateUser(ctx, username, password, email, role)
}

// ServeForever blocks, listening for HTTP connections on addr:port. If addr
// is empty, it listens on all interfaces.
func (s Server) ServeForever(addr string, port int) error {
	listenOn := fmt.Sprintf("%s:%d", addr, port)
	log.Printf("INFO  Listening on %s", listenOn)
	return http.ListenAndServe(listenOn, s.router)
}
