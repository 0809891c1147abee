package views

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// JoinList formats a list field for its comma separated input.
func JoinList(items []string) string {
	return content.JoinList(items)
}

// FieldName returns the editor field name of an entry field, e.g. "2.title".
func FieldName(index int, name string) string {
	return fmt.Sprintf("%d.%s", index, name)
}

// MailtoAddress strips a "mailto:" prefix for display.
func MailtoAddress(s string) string {
	return strings.TrimPrefix(s, "mailto:")
}

// PersonJsonLD produces a Schema.org Person JSON-LD block for the portfolio.
func PersonJsonLD(cfg SiteConfig, c content.Content) string {
	p := c.PersonalInfo
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     p.Name,
		"url":      buildURL(cfg.URL),
	}
	if p.Role != "" {
		data["jobTitle"] = p.Role
	}
	if p.Location != "" {
		data["address"] = map[string]string{
			"@type":           "PostalAddress",
			"addressLocality": p.Location,
		}
	}
	if p.Education.College != "" {
		data["alumniOf"] = map[string]string{
			"@type": "CollegeOrUniversity",
			"name":  p.Education.College,
		}
	}
	var sameAs []string
	for _, s := range []string{p.Social.GitHub, p.Social.LinkedIn} {
		if strings.HasPrefix(s, "http") {
			sameAs = append(sameAs, s)
		}
	}
	if len(sameAs) > 0 {
		data["sameAs"] = sameAs
	}
	var skills []string
	for _, cat := range c.SkillCategories {
		skills = append(skills, cat.Skills...)
	}
	if len(skills) > 0 {
		data["knowsAbout"] = skills
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
