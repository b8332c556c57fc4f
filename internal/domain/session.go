package domain

// Mode decides how the next free-text message of a session is interpreted
type Mode string

const (
	// ModeNone - no free text is expected
	ModeNone Mode = ""
	// ModeWaitingForCustomReply - the next free text is the user's own reply draft
	ModeWaitingForCustomReply Mode = "waiting_for_custom_reply"
	// ModeConfirmingReply - a draft is shown and waits for yes/no
	ModeConfirmingReply Mode = "confirming_reply"
)

// SessionKey identifies one conversation: a user inside a chat
type SessionKey struct {
	ChatID string
	UserID string
}

// SessionData is the conversational state of one session key.
// Zero values mean "not set".
type SessionData struct {
	SelectedAccountID int64  // Chosen marketplace account
	Marketplace       string // Marketplace of the chosen account
	NextPageToken     string // Cursor of the next unanswered review, relative to SelectedAccountID

	ReviewID       string   // Most recently fetched review
	Review         string   // Rendered review text
	SuggestedReply string   // Generated reply candidate
	Photos         []string // Review photo URLs

	CustomReply string // User-authored draft
	Mode        Mode

	LastBotMessageID string // Most recent bot message carrying UI
}

// HasAccount reports whether a marketplace account is selected
func (s SessionData) HasAccount() bool {
	return s.SelectedAccountID != 0
}

// CanSubmit reports whether a reply may be submitted for the current review
func (s SessionData) CanSubmit() bool {
	return s.SelectedAccountID != 0 && s.ReviewID != ""
}

// SelectAccount switches the session to another account.
// The cursor and the fetched review belong to the previous account and are dropped.
func (s *SessionData) SelectAccount(accountID int64, marketplace string) {
	s.SelectedAccountID = accountID
	s.Marketplace = marketplace
	s.NextPageToken = ""
	s.ClearReview()
	s.CustomReply = ""
	s.Mode = ModeNone
}

// SetReview stores a freshly fetched review and its cursor
func (s *SessionData) SetReview(result ReviewResult) {
	s.ReviewID = result.ReviewID
	s.Review = result.Review
	s.SuggestedReply = result.Reply
	s.Photos = append([]string(nil), result.Photos...)
	s.NextPageToken = result.NextPageToken
	s.Mode = ModeNone
}

// ClearReview drops the fetched review and its derived texts
func (s *SessionData) ClearReview() {
	s.ReviewID = ""
	s.Review = ""
	s.SuggestedReply = ""
	s.Photos = nil
}

// SetDraft stores a custom reply and asks for confirmation
func (s *SessionData) SetDraft(text string) {
	s.CustomReply = text
	s.Mode = ModeConfirmingReply
}

// Clone returns a copy that shares no slices with s
func (s SessionData) Clone() SessionData {
	c := s
	if s.Photos != nil {
		c.Photos = append([]string(nil), s.Photos...)
	}
	return c
}
