package entity

// Player is a registered client identity and the mark it currently plays.
type Player struct {
	Identity string `json:"identity"`
	Mark     Mark   `json:"mark"`
}
