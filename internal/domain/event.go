package domain

import "strings"

// EventKind represents the type of inbound chat event
type EventKind string

const (
	// EventKindCommand - slash command such as /start
	EventKindCommand EventKind = "command"
	// EventKindButton - inline button tap
	EventKindButton EventKind = "button"
	// EventKindText - free-text message
	EventKindText EventKind = "text"
)

// Commands understood by the bot
const (
	CommandStart = "start"
	CommandHelp  = "help"
)

// Button payloads
const (
	ActionChooseMarketplace   = "choose_marketplace"
	ActionHelp                = "help"
	ActionChooseAccountPrefix = "choose_account:"
	ActionSelectAccountPrefix = "select_account:"
	ActionGetReview           = "get_review"
	ActionNextReview          = "next_review"
	ActionSendSuggested       = "send_suggested"
	ActionWriteOwn            = "write_own"
	ActionConfirmYes          = "confirm_yes"
	ActionConfirmNo           = "confirm_no"
)

// Event is a transport-neutral inbound chat event
type Event struct {
	Kind    EventKind
	ChatID  string
	UserID  string
	Payload string // command name, button data or message text
}

// Key returns the session key of the event
func (e Event) Key() SessionKey {
	return SessionKey{ChatID: e.ChatID, UserID: e.UserID}
}

// ParseCommand splits "/start arg" style text into a command event payload.
// ok is false when text is not a command.
func ParseCommand(text string) (command string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", false
	}
	command = strings.ToLower(fields[0])
	// Telegram appends the bot name in groups: /start@ReviewReplierBot
	if i := strings.IndexByte(command, '@'); i >= 0 {
		command = command[:i]
	}
	return command, command != ""
}

// Button is an inline keyboard button; exactly one of Data and URL is set
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is an inline keyboard, one slice per row
type Keyboard struct {
	Rows [][]Button
}

// NewKeyboard builds a keyboard with one button per row
func NewKeyboard(buttons ...Button) *Keyboard {
	rows := make([][]Button, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []Button{b})
	}
	return &Keyboard{Rows: rows}
}

// OutgoingMessage is a bot message; PhotoURL turns it into a captioned photo
type OutgoingMessage struct {
	Text     string
	Keyboard *Keyboard
	PhotoURL string
}
