// Package render provides HTML rendering for the public site: the post
// listing page and the post detail page with its comment form. Templates
// are embedded at compile time.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"inkwell/internal/models"
)

//go:embed templates/site/*.html
var siteFS embed.FS

// ImageResolver turns an image asset reference into a fetchable URL.
// Satisfied by (*sanity.Client).ImageURL.
type ImageResolver func(ref string) (string, error)

// Renderer executes the site templates against store documents.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded site templates. imageURL resolves asset
// references; a resolution failure renders as an empty src rather than
// failing the whole page.
func New(imageURL ImageResolver) (*Renderer, error) {
	funcMap := template.FuncMap{
		"urlFor": func(img models.Image) string {
			if img.Asset.Ref == "" {
				return ""
			}
			u, err := imageURL(img.Asset.Ref)
			if err != nil {
				return ""
			}
			return u
		},
		"fmtDate": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"renderBody": func(blocks []models.Block) template.HTML {
			// BlocksToHTML escapes all text itself; marking the result safe
			// only trusts our own generated tags.
			return template.HTML(BlocksToHTML(blocks))
		},
	}

	tmpl, err := template.New("site").Funcs(funcMap).ParseFS(siteFS, "templates/site/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse site templates: %w", err)
	}

	return &Renderer{templates: tmpl}, nil
}

// Home renders the post listing page.
func (r *Renderer) Home(posts []models.PostSummary) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "home.html", map[string]any{
		"Posts": posts,
	}); err != nil {
		return nil, fmt.Errorf("render home: %w", err)
	}
	return buf.Bytes(), nil
}

// Post renders the post detail page, including approved comments and the
// submission form.
func (r *Renderer) Post(post *models.Post) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "post.html", map[string]any{
		"Post": post,
	}); err != nil {
		return nil, fmt.Errorf("render post %q: %w", post.Slug.Current, err)
	}
	return buf.Bytes(), nil
}
