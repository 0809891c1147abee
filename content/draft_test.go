package content

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSection(t *testing.T) {
	for _, s := range []string{"personal", "skills", "projects"} {
		if _, err := ParseSection(s); err != nil {
			t.Errorf("ParseSection(%q) failed: %v", s, err)
		}
	}
	for _, s := range []string{"", "Personal", "contact", "skill"} {
		if _, err := ParseSection(s); !errors.Is(err, ErrUnknownSection) {
			t.Errorf("ParseSection(%q) = %v, want ErrUnknownSection", s, err)
		}
	}
}

func TestDraftIsIndependentCopy(t *testing.T) {
	c := Default()
	before := c.Clone()

	for _, s := range Sections {
		d, err := c.DraftOf(s)
		if err != nil {
			t.Fatalf("DraftOf(%s) failed: %v", s, err)
		}
		switch d := d.(type) {
		case *PersonalDraft:
			d.Set("name", "Changed")
			d.Set("education.college", "Changed")
		case *SkillsDraft:
			d.Set("0.skills", "x, y")
			d.Categories[1].Skills[0] = "mutated"
		case *ProjectsDraft:
			d.Set("0.title", "Changed")
			d.Projects[0].Tech[0] = "mutated"
			d.Add()
		}
	}

	if !reflect.DeepEqual(c, before) {
		t.Errorf("editing drafts mutated the source content")
	}
}

func TestPersonalDraftFields(t *testing.T) {
	d := &PersonalDraft{}
	fields := map[string]string{
		"name": "N", "role": "R", "location": "L", "profilePic": "P",
		"education.college": "C", "education.degree": "D", "education.cgpa": "4.0",
		"social.github": "G", "social.linkedin": "LI", "social.email": "mailto:x@y.z", "social.resume": "CV",
	}
	for f, v := range fields {
		if err := d.Set(f, v); err != nil {
			t.Fatalf("Set(%q) failed: %v", f, err)
		}
	}
	want := PersonalInfo{
		Name: "N", Role: "R", Location: "L", ProfilePic: "P",
		Education: Education{College: "C", Degree: "D", GPA: "4.0"},
		Social:    Social{GitHub: "G", LinkedIn: "LI", Email: "mailto:x@y.z", Resume: "CV"},
	}
	if d.Info != want {
		t.Errorf("Info = %+v, want %+v", d.Info, want)
	}
	if err := d.Set("0.title", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestListFieldsSplitOnComma(t *testing.T) {
	d := &ProjectsDraft{Projects: []Project{NewProject()}}
	if err := d.Set("0.tech", " Go ,SQL,  A, B "); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	want := []string{"Go", "SQL", "A", "B"}
	if !reflect.DeepEqual(d.Projects[0].Tech, want) {
		t.Errorf("Tech = %q, want %q", d.Projects[0].Tech, want)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"Go", []string{"Go"}},
		{"Go, SQL", []string{"Go", "SQL"}},
		{"a, b,", []string{"a", "b", ""}},
	}
	for _, tt := range tests {
		got := SplitList(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCommaInsideItemDoesNotRoundTrip(t *testing.T) {
	items := []string{"A, B"}
	got := SplitList(JoinList(items))
	if reflect.DeepEqual(got, items) {
		t.Fatalf("expected %q to split, got %q", items, got)
	}
}

func TestIndexedFieldErrors(t *testing.T) {
	d := &SkillsDraft{Categories: []SkillCategory{{Title: "a"}}}
	if err := d.Set("1.title", "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := d.Set("title", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if err := d.Set("0.name", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestRemoveOnlyEntryLeavesEmptyList(t *testing.T) {
	skills := &SkillsDraft{Categories: []SkillCategory{{Title: "only"}}}
	if err := skills.Remove(0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	projects := &ProjectsDraft{Projects: []Project{NewProject()}}
	if err := projects.Remove(0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	c := Default().With(skills).With(projects)
	if c.SkillCategories == nil || len(c.SkillCategories) != 0 {
		t.Errorf("SkillCategories = %#v, want empty", c.SkillCategories)
	}
	if c.Projects == nil || len(c.Projects) != 0 {
		t.Errorf("Projects = %#v, want empty", c.Projects)
	}
	if err := projects.Remove(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRemoveKeepsOrder(t *testing.T) {
	d := &ProjectsDraft{Projects: []Project{{Title: "a"}, {Title: "b"}, {Title: "c"}}}
	orig := d.Projects
	if err := d.Remove(1); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(d.Projects) != 2 || d.Projects[0].Title != "a" || d.Projects[1].Title != "c" {
		t.Errorf("Projects = %+v", d.Projects)
	}
	if orig[1].Title != "b" {
		t.Errorf("Remove modified the previous backing array")
	}
}

func TestWithReplacesOnlyOneSection(t *testing.T) {
	c := Default()
	d := &PersonalDraft{Info: PersonalInfo{Name: "Someone"}}

	got := c.With(d)
	if got.PersonalInfo.Name != "Someone" {
		t.Errorf("Name = %q", got.PersonalInfo.Name)
	}
	if !reflect.DeepEqual(got.SkillCategories, c.SkillCategories) || !reflect.DeepEqual(got.Projects, c.Projects) {
		t.Errorf("other sections changed")
	}
	if c.PersonalInfo.Name == "Someone" {
		t.Errorf("With mutated the receiver")
	}
}

func TestDecodeDraft(t *testing.T) {
	d, err := DecodeDraft(SectionProjects, []byte(`[{"title":"Demo","link":"#","description":"x","tech":["Go"]}]`))
	if err != nil {
		t.Fatalf("DecodeDraft failed: %v", err)
	}
	p, ok := d.(*ProjectsDraft)
	if !ok {
		t.Fatalf("got %T, want *ProjectsDraft", d)
	}
	if len(p.Projects) != 1 || p.Projects[0].Title != "Demo" || p.Projects[0].Tech[0] != "Go" {
		t.Errorf("projects = %+v", p.Projects)
	}

	d, err = DecodeDraft(SectionSkills, []byte(`[]`))
	if err != nil {
		t.Fatalf("DecodeDraft failed: %v", err)
	}
	if d.(*SkillsDraft).Categories == nil {
		t.Error("empty skills decoded to nil")
	}

	d, err = DecodeDraft(SectionPersonal, []byte(`{"name":"A","education":{"cgpa":"4.0"}}`))
	if err != nil {
		t.Fatalf("DecodeDraft failed: %v", err)
	}
	if info := d.(*PersonalDraft).Info; info.Name != "A" || info.Education.GPA != "4.0" {
		t.Errorf("info = %+v", info)
	}

	if _, err := DecodeDraft(SectionSkills, []byte(`{"title":"x"}`)); err == nil {
		t.Error("expected error for object where array is required")
	}
	if _, err := DecodeDraft(Section("other"), []byte(`{}`)); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("expected ErrUnknownSection, got %v", err)
	}
}
