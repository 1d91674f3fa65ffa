package models

import "gopkg.in/yaml.v3"

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

type InstructorRef struct {
	ID string `yaml:"id" json:"id" validate:"required"`
}

// CourseMeta is the meta.yml document of a course directory. The id must match
// the directory name; the instructor id must resolve against instructors.yml.
type CourseMeta struct {
	ID          string        `yaml:"id" json:"id" validate:"required,lowercase_slug"`
	Title       string        `yaml:"title" json:"title" validate:"required,min=3"`
	Description string        `yaml:"description" json:"description" validate:"required,min=10"`
	Duration    string        `yaml:"duration" json:"duration" validate:"required"`
	Level       CourseLevel   `yaml:"level" json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Area        string        `yaml:"area" json:"area" validate:"required"`
	Icon        string        `yaml:"icon" json:"icon,omitempty"`
	Color       string        `yaml:"color" json:"color,omitempty" validate:"omitempty,hexcolor"`
	Cover       string        `yaml:"cover" json:"cover,omitempty"`
	Tags        []string      `yaml:"tags" json:"tags" validate:"required,min=1,dive,required"`
	Instructor  InstructorRef `yaml:"instructor" json:"instructor"`
	Published   bool          `yaml:"published" json:"published"`
	Featured    bool          `yaml:"featured" json:"featured"`
}

// UnmarshalYAML applies defaults absent from the document (published defaults
// to true so authors only have to write it to hide a course).
func (m *CourseMeta) UnmarshalYAML(value *yaml.Node) error {
	type plain CourseMeta
	out := plain{Published: true}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*m = CourseMeta(out)
	return nil
}

// CourseSection is one titled chunk of lesson content extracted from a level-2
// Markdown heading. IDs are unique within a course (colliding heading slugs get
// an index suffix).
type CourseSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Level   int    `json:"level"`
	Content string `json:"content"`
}

// Course is a fully loaded course: metadata plus processed lesson content.
type Course struct {
	CourseMeta
	Content     string          `json:"content,omitempty"`
	Sections    []CourseSection `json:"sections,omitempty"`
	ReadingTime string          `json:"readingTime,omitempty"`
}

type Instructor struct {
	ID     string            `yaml:"id" json:"id" validate:"required"`
	Name   string            `yaml:"name" json:"name" validate:"required"`
	Role   string            `yaml:"role" json:"role,omitempty"`
	Bio    string            `yaml:"bio" json:"bio,omitempty"`
	Avatar string            `yaml:"avatar" json:"avatar,omitempty"`
	Links  map[string]string `yaml:"links" json:"links,omitempty"`
}

// InstructorsFile is the global instructors.yml document.
type InstructorsFile struct {
	Instructors []Instructor `yaml:"instructors" json:"instructors" validate:"required,min=1,dive"`
}
