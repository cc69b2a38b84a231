package engine

// State identifies where a user's conversation currently is. Every user is
// in exactly one state; Idle means no flow is in progress and menu input is
// interpreted fresh.
type State int

const (
	StateIdle State = iota

	// Add flow: collecting the three fields in order.
	StateAwaitingName
	StateAwaitingUsername
	StateAwaitingPassword

	// Search flow: waiting for the query text.
	StateAwaitingSearchQuery

	// Edit flow: a field choice keyboard is on screen, then waiting for
	// the replacement value.
	StateAwaitingEditChoice
	StateAwaitingEditValue

	// Delete flow: a confirmation keyboard is on screen.
	StateAwaitingDeleteConfirmation

	// A decrypted entry is on screen behind a Close button.
	StateShowingEntry
)

// String returns the log label for the state. Labels never include any data
// collected during the flow.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingName:
		return "awaiting_name"
	case StateAwaitingUsername:
		return "awaiting_username"
	case StateAwaitingPassword:
		return "awaiting_password"
	case StateAwaitingSearchQuery:
		return "awaiting_search_query"
	case StateAwaitingEditChoice:
		return "awaiting_edit_choice"
	case StateAwaitingEditValue:
		return "awaiting_edit_value"
	case StateAwaitingDeleteConfirmation:
		return "awaiting_delete_confirmation"
	case StateShowingEntry:
		return "showing_entry"
	default:
		return "unknown"
	}
}
