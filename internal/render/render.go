// Package render превращает данные страниц в HTML. Функции пакета чистые:
// на вход модели представления, на выход разметка в io.Writer. HTTP-обвязка
// живет в пакете handler.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/GoArmGo/PasteApp/internal/domain"
)

//go:embed templates
var templatesFS embed.FS

// Страницы, которые умеет рисовать Renderer.
const (
	PageIndex   = "index"
	PageUsers   = "users"
	PagePaste   = "paste"
	PageProfile = "profile"
	PageLogin   = "login"
	PageMessage = "message"
)

// Компоненты, доступные отдельно от страниц.
var components = map[string]bool{
	"navbar": true,
	"ticker": true,
	"footer": true,
}

var funcs = template.FuncMap{
	"slug": domain.Slugify,
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
}

// Renderer держит по шаблону на страницу: общий layout с компонентами,
// склонированный и дополненный содержимым страницы.
type Renderer struct {
	base  *template.Template
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	root, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}

	base, err := template.New("layout.html").Funcs(funcs).ParseFS(root, "layout.html", "components/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(root, "pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(root, file); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	return &Renderer{base: base, pages: pages}, nil
}

// Page рисует страницу целиком внутри layout.
func (r *Renderer) Page(w io.Writer, name string, data Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Component рисует один компонент (navbar, ticker, footer) без layout.
func (r *Renderer) Component(w io.Writer, name string, nav NavState) error {
	if !components[name] {
		return fmt.Errorf("render: unknown component %q", name)
	}
	return r.base.ExecuteTemplate(w, name, nav)
}
