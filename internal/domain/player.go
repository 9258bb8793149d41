package domain

// Player represents a player row in the game store
type Player struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}
