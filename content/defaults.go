package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in content written the first time a site has
// no document.
func Default() Content {
	return Content{
		PersonalInfo: PersonalInfo{
			Name:       "Your Name",
			Role:       "Software Engineer",
			Location:   "Somewhere, Earth",
			ProfilePic: "/public/profile.svg",
			Education: Education{
				College: "Your University",
				Degree:  "B.Sc. Computer Science",
				GPA:     "3.8",
			},
			Social: Social{
				GitHub:   "https://github.com/",
				LinkedIn: "https://linkedin.com/",
				Email:    "mailto:admin@example.com",
				Resume:   "#",
			},
		},
		SkillCategories: []SkillCategory{
			{Title: "Languages", Skills: []string{"Go", "SQL", "TypeScript"}},
			{Title: "Backend", Skills: []string{"REST APIs", "SQLite", "Redis"}},
			{Title: "Tools", Skills: []string{"Git", "Docker", "Linux"}},
		},
		Projects: []Project{
			{
				Title:       "folio",
				Link:        "https://github.com/eringen/folio",
				Description: "A self-hosted portfolio page with in-place admin editing.",
				Tech:        []string{"Go", "Echo", "SQLite"},
			},
		},
	}
}

// LoadSeed reads default content from a YAML or JSON file. Fields missing
// from the file keep their zero value.
func LoadSeed(path string) (Content, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("read seed: %w", err)
	}
	var c Content
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &c)
	default:
		err = yaml.Unmarshal(b, &c)
	}
	if err != nil {
		return Content{}, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return c.Clone(), nil
}
