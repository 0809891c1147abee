package views

import (
	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/content"
)

// SiteConfig holds the site-wide settings templates need.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
}

// PageMeta carries OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	Image       string
}

// EditorState describes the open edit session of an admin.
type EditorState struct {
	Section content.Section
	Draft   content.Draft
	Saving  bool
}

// ContactState is the contact form as last submitted.
type ContactState struct {
	Form  contact.Form
	Sent  bool
	Error string
}

// Page is everything the default templates render.
type Page struct {
	Site    SiteConfig
	Meta    PageMeta
	Content content.Content

	// Identity
	AuthEnabled bool
	SignedIn    bool
	Email       string
	IsAdmin     bool
	LoginError  string

	Editor  *EditorState // nil unless an admin has a section open
	Message string       // inline status or error for the editor

	Contact   ContactState
	CSRFToken string
}

// Editing reports whether section s is open in the editor.
func (p Page) Editing(s string) bool {
	return p.Editor != nil && string(p.Editor.Section) == s
}

// Personal returns the draft when the personal section is open.
func (e *EditorState) Personal() *content.PersonalDraft {
	d, _ := e.Draft.(*content.PersonalDraft)
	return d
}

// Skills returns the draft when the skills section is open.
func (e *EditorState) Skills() *content.SkillsDraft {
	d, _ := e.Draft.(*content.SkillsDraft)
	return d
}

// Projects returns the draft when the projects section is open.
func (e *EditorState) Projects() *content.ProjectsDraft {
	d, _ := e.Draft.(*content.ProjectsDraft)
	return d
}
