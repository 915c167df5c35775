package controller

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"

	"bramble/internal/web/viewmodels"
	"bramble/internal/wiki"
)

const flashSession = "bramble-flash"

// Wiki maps wiki service results onto templates, redirects and status codes.
type Wiki struct {
	Service   *wiki.Service
	Templates map[string]*template.Template
	Sessions  *sessions.CookieStore
}

// Register registers the wiki routes.
func (c *Wiki) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.index)
	mux.HandleFunc("GET /search", c.search)
	mux.HandleFunc("GET /wiki", c.random)
	mux.HandleFunc("GET /wiki/{title}", c.view)
	mux.HandleFunc("GET /edit/{title}", c.editView)
	mux.HandleFunc("POST /edit/{title}", c.editEdit)
	mux.HandleFunc("GET /history/{title}", c.history)
	mux.HandleFunc("GET /back/{title}/{event}", c.back)
	mux.HandleFunc("GET /diff/{title}/{event}", c.diff)
	mux.HandleFunc("GET /rehash/{title}/{event}", c.rehash)
}

func (c *Wiki) index(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, c.Service.Index(), "")
}

func (c *Wiki) random(w http.ResponseWriter, r *http.Request) {
	result, err := c.Service.Random()
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, result, "")
}

func (c *Wiki) search(w http.ResponseWriter, r *http.Request) {
	current, _ := strconv.Atoi(r.URL.Query().Get("p"))
	result, err := c.Service.Search(r.URL.Query().Get("s"), current)
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, result, "")
}

func (c *Wiki) view(w http.ResponseWriter, r *http.Request) {
	result, err := c.Service.View(r.PathValue("title"))
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, result, "")
}

func (c *Wiki) editView(w http.ResponseWriter, r *http.Request) {
	result, err := c.Service.EditView(r.PathValue("title"))
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, result, "")
}

func (c *Wiki) editEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	result, err := c.Service.EditEdit(r.Context(),
		r.PathValue("title"),
		r.PostFormValue("title"),
		r.PostFormValue("summary"),
		r.PostFormValue("content"))
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, result, "")
}

func (c *Wiki) history(w http.ResponseWriter, r *http.Request) {
	current, _ := strconv.Atoi(r.URL.Query().Get("p"))
	result, err := c.Service.History(r.PathValue("title"), current)
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, result, "")
}

func (c *Wiki) back(w http.ResponseWriter, r *http.Request) {
	event, ok := c.event(w, r)
	if !ok {
		return
	}

	result, err := c.Service.Back(r.PathValue("title"), event)
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, result, c.popNotice(w, r))
}

func (c *Wiki) diff(w http.ResponseWriter, r *http.Request) {
	event, ok := c.event(w, r)
	if !ok {
		return
	}

	result, err := c.Service.Diff(r.PathValue("title"), event)
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, result, "")
}

func (c *Wiki) rehash(w http.ResponseWriter, r *http.Request) {
	event, ok := c.event(w, r)
	if !ok {
		return
	}

	result, err := c.Service.Rehash(r.Context(), r.PathValue("title"), event)
	if err != nil {
		c.fail(w, err)
		return
	}

	// A rehash bounced back to the snapshot view means the page was locked
	// or the old title now collides; tell the user on arrival.
	if strings.HasPrefix(result.Redirect, "/back/") {
		c.setNotice(w, r, "The page could not be rehashed right now. Try again in a moment.")
	}
	c.render(w, r, result, "")
}

func (c *Wiki) event(w http.ResponseWriter, r *http.Request) (int, bool) {
	event, err := strconv.Atoi(r.PathValue("event"))
	if err != nil || event < 1 {
		http.NotFound(w, r)
		return 0, false
	}
	return event, true
}

func (c *Wiki) fail(w http.ResponseWriter, err error) {
	slog.Error("wiki operation failed", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (c *Wiki) setNotice(w http.ResponseWriter, r *http.Request, notice string) {
	session, _ := c.Sessions.Get(r, flashSession)
	session.AddFlash(notice)
	if err := session.Save(r, w); err != nil {
		slog.Warn("error saving flash notice", "error", err)
	}
}

func (c *Wiki) popNotice(w http.ResponseWriter, r *http.Request) string {
	session, _ := c.Sessions.Get(r, flashSession)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return ""
	}
	if err := session.Save(r, w); err != nil {
		slog.Warn("error clearing flash notice", "error", err)
	}
	notice, _ := flashes[0].(string)
	return notice
}

func (c *Wiki) render(w http.ResponseWriter, r *http.Request, result wiki.Result, notice string) {
	if result.NotFound {
		http.NotFound(w, r)
		return
	}
	if result.Redirect != "" {
		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
		return
	}

	data := toPageData(result)
	data.Notice = notice

	tmpl, ok := c.Templates[result.Name+".html"]
	if !ok {
		slog.Error("missing template", "name", result.Name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("error executing template", "name", result.Name, "error", err)
	}
}

func toPageData(result wiki.Result) viewmodels.PageData {
	switch data := result.Data.(type) {
	case wiki.PageView:
		return viewmodels.PageData{Page: data.Page, Content: template.HTML(data.Page.HTML)}
	case wiki.EditView:
		return viewmodels.PageData{Page: data.Page, NewTitle: data.NewTitle, Summary: data.Summary}
	case wiki.HistoryView:
		return viewmodels.PageData{Page: data.Page, Revisions: data.Revisions, Current: data.Current, Last: data.Last}
	case wiki.BackView:
		return viewmodels.PageData{Page: data.Page, Event: data.Event, Origin: data.Origin}
	case wiki.DiffView:
		return viewmodels.PageData{Page: data.Page, Revision: data.Revision, Event: data.Revision.Event}
	case wiki.SearchView:
		return viewmodels.PageData{Query: data.Query, Pages: data.Pages, Current: data.Current, Last: data.Last}
	default:
		return viewmodels.PageData{}
	}
}
