package web

import (
	"net/http"

	"bramble/internal/web/controller"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", StaticFileServer()))

	wikiController := controller.Wiki{Service: s.wiki, Templates: s.templates, Sessions: s.sessions}
	wikiController.Register(mux)

	return mux
}
