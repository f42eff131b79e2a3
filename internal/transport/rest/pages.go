package rest

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/tictactoe-lan/internal/entity"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static/*
var static embed.FS

type pages struct {
	index   *template.Template
	winner  *template.Template
	failure *template.Template
}

func parsePages() (*pages, error) {
	parse := func(name string) (*template.Template, error) {
		tmpl, err := template.ParseFS(templates, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		return tmpl, nil
	}

	index, err := parse("index.html")
	if err != nil {
		return nil, err
	}

	winner, err := parse("winner.html")
	if err != nil {
		return nil, err
	}

	errorPage, err := parse("error.html")
	if err != nil {
		return nil, err
	}

	return &pages{index: index, winner: winner, failure: errorPage}, nil
}

// page is the data every template renders from.
type page struct {
	View  entity.View
	Mark  entity.Mark
	Flash string
}

func (that page) Version() uint64 {
	return that.View.Version
}

func (that page) Waiting() bool {
	return that.View.IsWaiting()
}

func (that page) YourTurn() bool {
	return that.Mark.IsPlayer() &&
		!that.View.IsWaiting() &&
		!that.View.IsOver() &&
		that.Mark == that.View.Turn
}

func (that page) Result() string {
	if that.View.Result == nil {
		return ""
	}

	return capitalize(that.View.Result.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// render executes tmpl into a buffer first so that a template error still
// produces a clean error page. Write errors mean the client went away and are
// not reported.
func render(w http.ResponseWriter, tmpl *template.Template, status int, data *page) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(w)
	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)

	return nil
}

func serveStatic(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := "static/" + strings.TrimPrefix(ps.ByName("file"), "/")

	data, err := static.ReadFile(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch path.Ext(name) {
	case ".css":
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
	case ".js":
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	securityHeaders(w)

	_, _ = w.Write(data)
}
