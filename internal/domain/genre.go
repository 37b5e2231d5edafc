package domain

// Genre represents a musical genre tag.
// Both the display name and the URL-safe slug are unique.
type Genre struct {
	Entity
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}
