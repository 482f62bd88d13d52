package models

// Item represents a single entry on the ranking board
type Item struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	ImageURL string   `json:"image_url"`
	Tags     []string `json:"tags"`
}

// Placement records where an item currently sits on the board
type Placement struct {
	Tier     string `json:"tier"`
	Position int    `json:"position"`
}
