package domain

// Instruction is a work instruction backed by a markdown file. Content is the
// raw markdown; rendering is a client concern.
type Instruction struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}
