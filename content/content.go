// Package content holds the portfolio document, its editable sections and
// the adapter that reads and writes it through a docstore.
package content

import "strings"

// Content is the single document rendered by the page.
type Content struct {
	PersonalInfo    PersonalInfo    `json:"personalInfo" yaml:"personalInfo"`
	SkillCategories []SkillCategory `json:"skillCategories" yaml:"skillCategories"`
	Projects        []Project       `json:"projects" yaml:"projects"`
}

// PersonalInfo is the hero/profile section.
type PersonalInfo struct {
	Name       string    `json:"name" yaml:"name"`
	Role       string    `json:"role" yaml:"role"`
	Location   string    `json:"location" yaml:"location"`
	ProfilePic string    `json:"profilePic,omitempty" yaml:"profilePic"`
	Education  Education `json:"education" yaml:"education"`
	Social     Social    `json:"social" yaml:"social"`
}

// Education is stored with the "cgpa" key used by existing documents.
type Education struct {
	College string `json:"college" yaml:"college"`
	Degree  string `json:"degree" yaml:"degree"`
	GPA     string `json:"cgpa" yaml:"cgpa"`
}

// Social links. Email is a mailto: URI.
type Social struct {
	GitHub   string `json:"github" yaml:"github"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	Email    string `json:"email" yaml:"email"`
	Resume   string `json:"resume" yaml:"resume"`
}

// SkillCategory groups skills under a title, in display order.
type SkillCategory struct {
	Title  string   `json:"title" yaml:"title"`
	Skills []string `json:"skills" yaml:"skills"`
}

// Project is one entry of the projects grid.
type Project struct {
	Title       string   `json:"title" yaml:"title"`
	Link        string   `json:"link" yaml:"link"`
	Description string   `json:"description" yaml:"description"`
	Tech        []string `json:"tech" yaml:"tech"`
}

// EmailAddress returns the social email without its mailto: scheme.
func (s Social) EmailAddress() string {
	return strings.TrimPrefix(s.Email, "mailto:")
}

// Clone returns a deep copy of c. Nil sequences come back empty.
func (c Content) Clone() Content {
	return Content{
		PersonalInfo:    c.PersonalInfo,
		SkillCategories: cloneSkills(c.SkillCategories),
		Projects:        cloneProjects(c.Projects),
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneSkills(in []SkillCategory) []SkillCategory {
	out := make([]SkillCategory, len(in))
	for i, c := range in {
		out[i] = SkillCategory{Title: c.Title, Skills: cloneStrings(c.Skills)}
	}
	return out
}

func cloneProjects(in []Project) []Project {
	out := make([]Project, len(in))
	for i, p := range in {
		out[i] = p
		out[i].Tech = cloneStrings(p.Tech)
	}
	return out
}

// NewProject is the template appended by the projects editor.
func NewProject() Project {
	return Project{
		Title:       "New Project",
		Link:        "#",
		Description: "Description",
		Tech:        []string{},
	}
}
