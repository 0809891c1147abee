package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownSection  = errors.New("content: unknown section")
	ErrUnknownField    = errors.New("content: unknown field")
	ErrIndexOutOfRange = errors.New("content: index out of range")
)

// Section names one independently editable part of the document.
type Section string

const (
	SectionPersonal Section = "personal"
	SectionSkills   Section = "skills"
	SectionProjects Section = "projects"
)

// Sections lists every section in page order.
var Sections = []Section{SectionPersonal, SectionSkills, SectionProjects}

// ParseSection accepts exactly the three section names.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionPersonal, SectionSkills, SectionProjects:
		return Section(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Valid reports whether s is one of the three sections.
func (s Section) Valid() bool {
	_, err := ParseSection(string(s))
	return err == nil
}

// DraftOf returns a deep copy of section s of c as a draft.
func (c Content) DraftOf(s Section) (Draft, error) {
	switch s {
	case SectionPersonal:
		return &PersonalDraft{Info: c.PersonalInfo}, nil
	case SectionSkills:
		return &SkillsDraft{Categories: cloneSkills(c.SkillCategories)}, nil
	case SectionProjects:
		return &ProjectsDraft{Projects: cloneProjects(c.Projects)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// With returns a copy of c whose section is replaced by d.
func (c Content) With(d Draft) Content {
	out := c.Clone()
	d.applyTo(&out)
	return out
}

// DecodeDraft reads the JSON value of one section into a draft: an object
// for personal, an array for skills and projects.
func DecodeDraft(s Section, data []byte) (Draft, error) {
	var d Draft
	var err error
	switch s {
	case SectionPersonal:
		var p PersonalDraft
		err = json.Unmarshal(data, &p.Info)
		d = &p
	case SectionSkills:
		var sk SkillsDraft
		err = json.Unmarshal(data, &sk.Categories)
		if sk.Categories == nil {
			sk.Categories = []SkillCategory{}
		}
		d = &sk
	case SectionProjects:
		var pr ProjectsDraft
		err = json.Unmarshal(data, &pr.Projects)
		if pr.Projects == nil {
			pr.Projects = []Project{}
		}
		d = &pr
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	if err != nil {
		return nil, fmt.Errorf("content: decode %s: %w", s, err)
	}
	return d.Clone(), nil
}
