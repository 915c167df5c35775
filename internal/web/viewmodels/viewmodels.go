package viewmodels

import (
	"html/template"

	"bramble/internal/models"
)

// PageData is a unified struct holding all possible data for any view.
type PageData struct {
	Page      *models.Page
	Content   template.HTML
	NewTitle  string
	Summary   string
	Revisions []models.Revision
	Revision  *models.Revision
	Event     int
	Origin    string
	Query     string
	Pages     []models.Page
	Current   int
	Last      int
	Notice    string
}
