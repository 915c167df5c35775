package web

import (
	"database/sql"
	"html/template"
	"net/http"

	"github.com/gorilla/sessions"

	"bramble/internal/page"
	"bramble/internal/revision"
	"bramble/internal/wiki"
)

// Server holds the dependencies for the web server.
type Server struct {
	db        *sql.DB
	templates map[string]*template.Template
	wiki      *wiki.Service
	sessions  *sessions.CookieStore
}

// NewServer creates a new server with the given dependencies. The session
// store only carries flash notices across redirects.
func NewServer(db *sql.DB, templates map[string]*template.Template, sessionKey string) *Server {
	pageRepo := page.NewRepository(db)
	revisionRepo := revision.NewRepository(db)
	wikiService := wiki.NewService(pageRepo, revisionRepo, wiki.DefaultLockTTL)

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options.HttpOnly = true
	store.Options.Path = "/"
	store.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		db:        db,
		templates: templates,
		wiki:      wikiService,
		sessions:  store,
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.routes().ServeHTTP(w, r)
}
