package types

import (
	"context"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/player"
)

// RegistrationRequest asks the hub to open a session for a newly connected page.
type RegistrationRequest struct {
	Player *player.Player
	Ctx    context.Context
}
