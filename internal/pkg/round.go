package pkg

import "github.com/google/uuid"

// GenerateRoundID returns a random identifier for a new round.
func GenerateRoundID() string {
	return uuid.NewString()
}
