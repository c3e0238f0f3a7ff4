package events

// Type names a state change of a game controller.
type Type string

const (
	// Played is emitted after a new snapshot was appended to the history.
	Played Type = "played"
	// Jumped is emitted after the current move pointer was repositioned.
	Jumped Type = "jumped"
)

// Event describes a single state change. Observers re-read derived state
// from the controller; the event only says what happened.
type Event struct {
	Type Type `json:"event"`
	// Move is the current move pointer after the change.
	Move int `json:"move"`
	// Discarded counts the future snapshots dropped by a Played event.
	Discarded int `json:"discarded,omitempty"`
}
