package domain

// Map represents a map row in the game store
type Map struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
