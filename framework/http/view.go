package http

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"path"
)

// ── View / Templates ─────────────────────────────────────────────────────────

// ViewEngine renders html/template files from a filesystem.
type ViewEngine struct {
	fsys  fs.FS
	ext   string
	funcs template.FuncMap
}

// NewViewEngine creates a ViewEngine over fsys (e.g. an embed.FS or
// os.DirFS("./views")); ext is the file extension (e.g. ".html").
func NewViewEngine(fsys fs.FS, ext string) *ViewEngine {
	return &ViewEngine{fsys: fsys, ext: ext, funcs: template.FuncMap{}}
}

// Funcs registers template functions available to every view.
func (ve *ViewEngine) Funcs(funcs template.FuncMap) *ViewEngine {
	for k, f := range funcs {
		ve.funcs[k] = f
	}
	return ve
}

// ViewWithLayout renders name inside layout with the given status.
// The page is rendered fully before anything is written, so a template error
// still yields a clean 500.
//
//	engine.ViewWithLayout(w, http.StatusOK, "layout", "form", data)
func (ve *ViewEngine) ViewWithLayout(w http.ResponseWriter, status int, layout, name string, data any) {
	layoutPath := layout + ve.ext
	viewPath := name + ve.ext
	tmpl, err := template.New(path.Base(layoutPath)).Funcs(ve.funcs).ParseFS(ve.fsys, layoutPath, viewPath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, path.Base(layoutPath), data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
