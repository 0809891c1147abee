package content

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft is a working copy of one section. Exactly one of PersonalDraft,
// SkillsDraft or ProjectsDraft.
type Draft interface {
	Section() Section
	// Set replaces one scalar or list field. List fields take a comma
	// separated value.
	Set(field, value string) error
	Clone() Draft
	applyTo(*Content)
}

// EntryList is implemented by drafts whose section is a sequence.
type EntryList interface {
	Draft
	Len() int
	Remove(index int) error
}

// PersonalDraft edits PersonalInfo.
type PersonalDraft struct {
	Info PersonalInfo
}

func (d *PersonalDraft) Section() Section { return SectionPersonal }

func (d *PersonalDraft) Clone() Draft {
	return &PersonalDraft{Info: d.Info}
}

func (d *PersonalDraft) applyTo(c *Content) {
	c.PersonalInfo = d.Info
}

// Set accepts name, role, location, profilePic, education.{college,degree,cgpa}
// and social.{github,linkedin,email,resume}.
func (d *PersonalDraft) Set(field, value string) error {
	p := &d.Info
	switch field {
	case "name":
		p.Name = value
	case "role":
		p.Role = value
	case "location":
		p.Location = value
	case "profilePic":
		p.ProfilePic = value
	case "education.college":
		p.Education.College = value
	case "education.degree":
		p.Education.Degree = value
	case "education.cgpa", "education.gpa":
		p.Education.GPA = value
	case "social.github":
		p.Social.GitHub = value
	case "social.linkedin":
		p.Social.LinkedIn = value
	case "social.email":
		p.Social.Email = value
	case "social.resume":
		p.Social.Resume = value
	default:
		return fmt.Errorf("%w: personal.%s", ErrUnknownField, field)
	}
	return nil
}

// SkillsDraft edits the ordered skill categories.
type SkillsDraft struct {
	Categories []SkillCategory
}

func (d *SkillsDraft) Section() Section { return SectionSkills }

func (d *SkillsDraft) Clone() Draft {
	return &SkillsDraft{Categories: cloneSkills(d.Categories)}
}

func (d *SkillsDraft) applyTo(c *Content) {
	c.SkillCategories = cloneSkills(d.Categories)
}

func (d *SkillsDraft) Len() int { return len(d.Categories) }

// Set accepts "<index>.title" and "<index>.skills".
func (d *SkillsDraft) Set(field, value string) error {
	i, name, err := indexedField(field, len(d.Categories))
	if err != nil {
		return err
	}
	switch name {
	case "title":
		d.Categories[i].Title = value
	case "skills":
		d.Categories[i].Skills = SplitList(value)
	default:
		return fmt.Errorf("%w: skills.%s", ErrUnknownField, field)
	}
	return nil
}

func (d *SkillsDraft) Remove(index int) error {
	if index < 0 || index >= len(d.Categories) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	d.Categories = append(d.Categories[:index:index], d.Categories[index+1:]...)
	return nil
}

// ProjectsDraft edits the ordered project list.
type ProjectsDraft struct {
	Projects []Project
}

func (d *ProjectsDraft) Section() Section { return SectionProjects }

func (d *ProjectsDraft) Clone() Draft {
	return &ProjectsDraft{Projects: cloneProjects(d.Projects)}
}

func (d *ProjectsDraft) applyTo(c *Content) {
	c.Projects = cloneProjects(d.Projects)
}

func (d *ProjectsDraft) Len() int { return len(d.Projects) }

// Set accepts "<index>.title", "<index>.link", "<index>.description" and
// "<index>.tech".
func (d *ProjectsDraft) Set(field, value string) error {
	i, name, err := indexedField(field, len(d.Projects))
	if err != nil {
		return err
	}
	switch name {
	case "title":
		d.Projects[i].Title = value
	case "link":
		d.Projects[i].Link = value
	case "description":
		d.Projects[i].Description = value
	case "tech":
		d.Projects[i].Tech = SplitList(value)
	default:
		return fmt.Errorf("%w: projects.%s", ErrUnknownField, field)
	}
	return nil
}

// Add appends the blank project template.
func (d *ProjectsDraft) Add() {
	d.Projects = append(d.Projects, NewProject())
}

func (d *ProjectsDraft) Remove(index int) error {
	if index < 0 || index >= len(d.Projects) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	d.Projects = append(d.Projects[:index:index], d.Projects[index+1:]...)
	return nil
}

// indexedField splits "3.title" into (3, "title") and bounds-checks the index.
func indexedField(field string, n int) (int, string, error) {
	idx, name, ok := strings.Cut(field, ".")
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	i, err := strconv.Atoi(idx)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if i < 0 || i >= n {
		return 0, "", fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return i, name, nil
}
