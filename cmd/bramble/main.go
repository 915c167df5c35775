package main

import (
	"flag"
	"html/template"
	"log/slog"
	"net/http"
	"os"

	"bramble/internal/database"
	"bramble/internal/web"
)

func main() {
	var dsn = flag.String("dsn", "bramble.db", "The database connection string.")
	var addr = flag.String("addr", ":8080", "The address to listen on.")
	var sessionKey = flag.String("session-key", "", "Key for the flash-notice cookie session (32+ characters).")
	flag.Parse()

	if len(*sessionKey) < 32 {
		slog.Error("session key must be at least 32 characters long")
		os.Exit(1)
	}

	db, err := database.New(*dsn)
	if err != nil {
		slog.Error("error opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("error migrating database", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrated", "dsn", *dsn)

	// Each view gets its own isolated template set sharing the layout.
	templates := make(map[string]*template.Template)
	for _, name := range []string{"index", "view", "not-exist", "edit", "history", "back", "diff", "search"} {
		templates[name+".html"] = template.Must(template.ParseFiles(
			"internal/web/templates/layout.html",
			"internal/web/templates/"+name+".html",
		))
	}

	server := web.NewServer(db, templates, *sessionKey)

	slog.Info("starting server", "addr", *addr)
	if err := http.ListenAndServe(*addr, server); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
