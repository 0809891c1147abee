// Package views holds folio's default page templates. Sites can replace any
// of them through folio.ViewFuncs.
package views

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
)

//go:embed templates/*.html
var templateFS embed.FS

type editTarget struct {
	Section   string
	CSRFToken string
}

var funcs = template.FuncMap{
	"joinList":  JoinList,
	"fieldName": FieldName,
	"mailto":    MailtoAddress,
	"personJSONLD": func(cfg SiteConfig, c content.Content) template.JS {
		return template.JS(PersonJsonLD(cfg, c))
	},
	"editTarget": func(p Page, section string) editTarget {
		return editTarget{Section: section, CSRFToken: p.CSRFToken}
	},
}

var templates = template.Must(template.New("folio").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

func component(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}

// Home renders the full portfolio page.
func Home(p Page) templ.Component {
	return component("home", p)
}

// Section renders one section, for partial page updates.
func Section(p Page, s content.Section) templ.Component {
	if !s.Valid() {
		return Home(p)
	}
	return component("section-"+string(s), p)
}

// Contact renders the contact section.
func Contact(p Page) templ.Component {
	return component("contact", p)
}

func NotFound() templ.Component {
	return component("notfound", nil)
}

func ServerError() templ.Component {
	return component("error", nil)
}
