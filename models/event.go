package models

// EventKind discriminates the inbound interaction events the conversation
// engine accepts from the messaging gateway.
type EventKind int

const (
	// EventText is a free-text chat message.
	EventText EventKind = iota
	// EventButton is an inline-button press; Payload carries the callback
	// data and MessageID the message the button was attached to.
	EventButton
	// EventCommand is a slash command; Command holds the name without the
	// slash and Args any space-separated arguments.
	EventCommand
)

// String returns the log label for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventButton:
		return "button"
	case EventCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Event is one inbound interaction from the messaging gateway, already
// scoped to the acting user. Payload may contain secret plaintext while a
// flow is collecting input; events are therefore never logged verbatim.
type Event struct {
	UserID    int64
	Kind      EventKind
	Payload   string
	Command   string
	Args      []string
	MessageID int64
}

// Button is one pressable item in a keyboard row. Data is the callback
// payload returned to the engine when pressed; it carries identifiers only,
// never secrets.
type Button struct {
	Label string
	Data  string
}

// Keyboard describes the buttons attached to an outbound message. Inline
// keyboards are attached to the message itself; reply keyboards replace the
// user's input keyboard (used for the main menu).
type Keyboard struct {
	Inline bool
	Rows   [][]Button
}

// Response is the outbound descriptor handed back to the messaging gateway.
//
// When EditMessageID is non-zero the gateway edits that existing message
// instead of sending a new one. Ephemeral marks a message whose body
// contains decrypted secrets; the gateway must support retracting it (the
// attached Close button deletes it). DeleteMessageID asks the gateway to
// retract a previously sent ephemeral message.
type Response struct {
	ChatID          int64
	Body            string
	HTML            bool
	Keyboard        *Keyboard
	Ephemeral       bool
	EditMessageID   int64
	DeleteMessageID int64
}
