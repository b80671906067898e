package models

// CourseModule is a static catalog entry for one lesson.
type CourseModule struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Level       int    `json:"level"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	// Transcript stands in for the lecture content handed to the AI when no
	// file or pasted text is supplied.
	Transcript string `json:"transcript,omitempty"`
}
