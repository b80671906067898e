package models

// SavedSummary is a persisted AI-generated study guide.
type SavedSummary struct {
	ID          string   `json:"id"`
	ModuleID    string   `json:"moduleId"`
	ModuleTitle string   `json:"moduleTitle"`
	Content     string   `json:"content"` // markdown
	CreatedAt   int64    `json:"createdAt"`
	Tags        []string `json:"tags"` // category + level label
	Instructor  string   `json:"instructor,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	VideoURL    string   `json:"videoUrl,omitempty"`
}

// FileData is a file attachment handed to the AI gateway.
type FileData struct {
	MimeType   string
	Base64Data string
}
