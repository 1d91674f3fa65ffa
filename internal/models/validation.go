package models

// CourseFileError collects every problem found in one file of one course.
type CourseFileError struct {
	Course string   `json:"course"`
	File   string   `json:"file"`
	Errors []string `json:"errors"`
}

// ValidationResult is the complete report of a content validation run. The
// pipeline never aborts early: every course and file is visited and Valid is
// false if any of them failed.
type ValidationResult struct {
	Valid            bool              `json:"valid"`
	CoursesValidated int               `json:"coursesValidated"`
	Errors           []CourseFileError `json:"errors"`
	Warnings         []string          `json:"warnings"`
}
