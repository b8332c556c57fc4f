package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"review-replier/internal/domain"
	"review-replier/internal/ports/input"
	"review-replier/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure ConversationService implements the input port
var _ input.ConversationService = (*ConversationService)(nil)

// ConversationConfig holds the links and media shown by the bot
type ConversationConfig struct {
	WebAppURL       string // base URL of the registration web app
	WelcomeImageURL string // optional photo sent with the welcome message
}

// ConversationService struct - Application service driving the review-reply conversation
type ConversationService struct {
	sessions  output.SessionStore
	transport output.ChatTransport
	backend   output.ReviewBackend
	config    ConversationConfig
}

// NewConversationService func - Creates new conversation service
func NewConversationService(
	sessions output.SessionStore,
	transport output.ChatTransport,
	backend output.ReviewBackend,
	config ConversationConfig,
) *ConversationService {
	return &ConversationService{
		sessions:  sessions,
		transport: transport,
		backend:   backend,
		config:    config,
	}
}

// HandleEvent func - Use case: run one inbound chat event through the state machine.
// Failures become a single chat message; the returned error means even that
// message could not be delivered.
func (s *ConversationService) HandleEvent(ctx context.Context, event domain.Event) error {
	unlock := s.sessions.Lock(event.Key())
	defer unlock()

	log := logrus.WithFields(logrus.Fields{
		"chat_id": event.ChatID,
		"user_id": event.UserID,
		"kind":    event.Kind,
	})
	log.Debugf("Handling event: payload=%q", event.Payload)

	var err error
	switch event.Kind {
	case domain.EventKindCommand:
		err = s.handleCommand(ctx, event)
	case domain.EventKindButton:
		err = s.handleButton(ctx, event)
	case domain.EventKindText:
		err = s.handleText(ctx, event)
	default:
		log.Warnf("Unhandled event kind: %s", event.Kind)
		return nil
	}

	if err == nil {
		return nil
	}

	log.WithError(err).Warn("Event handling failed")
	if notifyErr := s.notify(ctx, event.ChatID, failureText(err)); notifyErr != nil {
		return fmt.Errorf("failed to report failure: %w", notifyErr)
	}
	return nil
}

func (s *ConversationService) handleCommand(ctx context.Context, event domain.Event) error {
	switch event.Payload {
	case domain.CommandStart:
		return s.restart(ctx, event)
	case domain.CommandHelp:
		return s.present(ctx, event, helpMessage())
	default:
		return s.notify(ctx, event.ChatID, textUnknownCommand)
	}
}

func (s *ConversationService) handleButton(ctx context.Context, event domain.Event) error {
	payload := event.Payload

	switch {
	case payload == domain.ActionChooseMarketplace:
		return s.chooseMarketplace(ctx, event)
	case payload == domain.ActionHelp:
		return s.present(ctx, event, helpMessage())
	case strings.HasPrefix(payload, domain.ActionChooseAccountPrefix):
		return s.chooseAccount(ctx, event, strings.TrimPrefix(payload, domain.ActionChooseAccountPrefix))
	case strings.HasPrefix(payload, domain.ActionSelectAccountPrefix):
		return s.selectAccount(ctx, event, strings.TrimPrefix(payload, domain.ActionSelectAccountPrefix))
	case payload == domain.ActionGetReview:
		return s.fetchReview(ctx, event, false)
	case payload == domain.ActionNextReview:
		return s.fetchReview(ctx, event, true)
	case payload == domain.ActionSendSuggested:
		return s.sendSuggested(ctx, event)
	case payload == domain.ActionWriteOwn:
		return s.writeOwn(ctx, event)
	case payload == domain.ActionConfirmYes:
		return s.confirmYes(ctx, event)
	case payload == domain.ActionConfirmNo:
		return s.confirmNo(ctx, event)
	default:
		logrus.Infof("Unknown button payload: %q", payload)
		return s.notify(ctx, event.ChatID, textUnknownAction)
	}
}

// handleText interprets free text by mode. The default arm is the fallback
// for every mode that does not expect input.
func (s *ConversationService) handleText(ctx context.Context, event domain.Event) error {
	key := event.Key()
	session := s.sessions.Get(key)

	switch session.Mode {
	case domain.ModeWaitingForCustomReply:
		draft := strings.TrimSpace(event.Payload)
		if draft == "" {
			return s.notify(ctx, event.ChatID, textWriteOwn)
		}
		s.sessions.Update(key, func(d *domain.SessionData) {
			d.SetDraft(draft)
		})
		return s.present(ctx, event, confirmDraftMessage(draft))
	default:
		return s.notify(ctx, event.ChatID, textNoInputExpected)
	}
}

// restart shows the entry screen for the user's registration state. The
// session is cleared only once the backend has answered.
func (s *ConversationService) restart(ctx context.Context, event domain.Event) error {
	authorized, err := s.backend.IsAuthorized(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	token, err := s.backend.EnsureToken(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to ensure token: %w", err)
	}

	msg := authorizeMessage(s.webAppLink("/auth", token))
	if authorized {
		info, err := s.backend.UserInfo(ctx, event.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user info: %w", err)
		}
		msg = welcomeMessage(info.Name, s.webAppLink("/accounts", token), s.config.WelcomeImageURL)
	}

	key := event.Key()
	previous := s.sessions.Get(key).LastBotMessageID
	s.sessions.Reset(key)
	s.deleteMessage(ctx, event.ChatID, previous)

	return s.present(ctx, event, msg)
}

func (s *ConversationService) chooseMarketplace(ctx context.Context, event domain.Event) error {
	accounts, err := s.backend.ListAccounts(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		token, err := s.backend.EnsureToken(ctx, event.UserID)
		if err != nil {
			return fmt.Errorf("failed to ensure token: %w", err)
		}
		return s.present(ctx, event, noAccountsMessage(s.webAppLink("/accounts", token)))
	}

	return s.present(ctx, event, marketplaceMenu(accounts))
}

func (s *ConversationService) chooseAccount(ctx context.Context, event domain.Event, marketplace string) error {
	accounts, err := s.backend.ListAccounts(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	_, groups := domain.GroupByMarketplace(accounts)
	group := groups[marketplace]
	if len(group) == 0 {
		return fmt.Errorf("no %s accounts: %w", marketplace, domain.ErrAccountNotFound)
	}

	return s.present(ctx, event, accountMenu(marketplace, group))
}

func (s *ConversationService) selectAccount(ctx context.Context, event domain.Event, rawID string) error {
	accountID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || accountID <= 0 {
		return fmt.Errorf("account id %q: %w", rawID, domain.ErrInvalidRequest)
	}

	accounts, err := s.backend.ListAccounts(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	var selected *domain.AccountSummary
	for i := range accounts {
		if accounts[i].ID == accountID {
			selected = &accounts[i]
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("account %d: %w", accountID, domain.ErrAccountNotFound)
	}

	s.sessions.Update(event.Key(), func(d *domain.SessionData) {
		d.SelectAccount(selected.ID, selected.Marketplace)
	})
	logrus.WithFields(logrus.Fields{"user_id": event.UserID, "account_id": accountID}).Info("Account selected")

	return s.present(ctx, event, mainMenu(fmt.Sprintf(textAccountSelected, selected.AccountName)))
}

// fetchReview reads the first unanswered review, or the one after the stored
// cursor when next is set. A failed fetch leaves the session untouched.
func (s *ConversationService) fetchReview(ctx context.Context, event domain.Event, next bool) error {
	key := event.Key()
	session := s.sessions.Get(key)
	if !session.HasAccount() {
		return domain.ErrNoAccountSelected
	}

	cursor := ""
	if next {
		cursor = session.NextPageToken
	}

	loadingID, err := s.transport.SendMessage(ctx, event.ChatID, domain.OutgoingMessage{Text: textLoading})
	if err != nil {
		logrus.Warnf("Failed to send loading notice: %v", err)
	}

	result, err := s.backend.GetReview(ctx, domain.GetReviewRequest{
		UserID:    event.UserID,
		AccountID: session.SelectedAccountID,
		PageToken: cursor,
	})
	s.deleteMessage(ctx, event.ChatID, loadingID)
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}

	if result == nil || !result.HasReview() {
		s.sessions.Update(key, func(d *domain.SessionData) {
			d.ClearReview()
			d.NextPageToken = ""
			d.Mode = domain.ModeNone
		})
		return s.present(ctx, event, mainMenu(textNoMoreReviews))
	}

	s.sessions.Update(key, func(d *domain.SessionData) {
		d.SetReview(*result)
	})
	logrus.WithFields(logrus.Fields{
		"user_id":    event.UserID,
		"account_id": session.SelectedAccountID,
		"review_id":  result.ReviewID,
	}).Info("Review fetched")

	if len(result.Photos) > 0 {
		if err := s.transport.SendPhotos(ctx, event.ChatID, result.Photos); err != nil {
			logrus.Warnf("Failed to send review photos: %v", err)
		}
	}
	if err := s.notify(ctx, event.ChatID, result.Review); err != nil {
		return err
	}

	return s.present(ctx, event, replyChoiceMessage(result.Reply))
}

func (s *ConversationService) sendSuggested(ctx context.Context, event domain.Event) error {
	session := s.sessions.Get(event.Key())
	if !session.CanSubmit() {
		return domain.ErrNoReviewSelected
	}
	if session.SuggestedReply == "" {
		return s.notify(ctx, event.ChatID, textNoSuggestion)
	}

	return s.submit(ctx, event, session, session.SuggestedReply)
}

func (s *ConversationService) writeOwn(ctx context.Context, event domain.Event) error {
	s.sessions.Update(event.Key(), func(d *domain.SessionData) {
		d.Mode = domain.ModeWaitingForCustomReply
	})
	return s.present(ctx, event, domain.OutgoingMessage{Text: textWriteOwn})
}

func (s *ConversationService) confirmYes(ctx context.Context, event domain.Event) error {
	session := s.sessions.Get(event.Key())
	if session.Mode != domain.ModeConfirmingReply {
		return s.notify(ctx, event.ChatID, textNothingToConfirm)
	}
	if !session.CanSubmit() {
		// the draft stays; only the confirmation is abandoned
		s.sessions.Update(event.Key(), func(d *domain.SessionData) {
			d.Mode = domain.ModeNone
		})
		return domain.ErrNoReviewSelected
	}

	return s.submit(ctx, event, session, session.CustomReply)
}

// confirmNo goes back to writing; the previous draft stays until new text replaces it
func (s *ConversationService) confirmNo(ctx context.Context, event domain.Event) error {
	session := s.sessions.Get(event.Key())
	if session.Mode != domain.ModeConfirmingReply {
		return s.notify(ctx, event.ChatID, textNothingToConfirm)
	}

	s.sessions.Update(event.Key(), func(d *domain.SessionData) {
		d.Mode = domain.ModeWaitingForCustomReply
	})
	return s.present(ctx, event, domain.OutgoingMessage{Text: textWriteOwn})
}

// submit posts text for the session's review. Success or failure, the
// conversation returns to the main menu.
func (s *ConversationService) submit(ctx context.Context, event domain.Event, session domain.SessionData, text string) error {
	log := logrus.WithFields(logrus.Fields{
		"user_id":    event.UserID,
		"account_id": session.SelectedAccountID,
		"review_id":  session.ReviewID,
	})

	err := s.backend.SendReply(ctx, domain.SendReplyRequest{
		UserID:    event.UserID,
		AccountID: session.SelectedAccountID,
		ReviewID:  session.ReviewID,
		Text:      text,
	})

	s.sessions.Update(event.Key(), func(d *domain.SessionData) {
		d.Mode = domain.ModeNone
	})

	notice := textReplySent
	if err != nil {
		log.WithError(err).Error("Failed to send reply")
		notice = textSubmissionFailed
		if errors.Is(err, domain.ErrAuthRequired) {
			notice = textAuthRequired
		}
	} else {
		log.Info("Reply sent")
	}

	if err := s.notify(ctx, event.ChatID, notice); err != nil {
		return err
	}
	return s.present(ctx, event, mainMenu(textMainMenu))
}

// present replaces the previous UI message with msg
func (s *ConversationService) present(ctx context.Context, event domain.Event, msg domain.OutgoingMessage) error {
	key := event.Key()
	s.deleteMessage(ctx, event.ChatID, s.sessions.Get(key).LastBotMessageID)

	messageID, err := s.transport.SendMessage(ctx, event.ChatID, msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	s.sessions.Update(key, func(d *domain.SessionData) {
		d.LastBotMessageID = messageID
	})
	return nil
}

// notify sends a plain message that does not replace the current UI
func (s *ConversationService) notify(ctx context.Context, chatID, text string) error {
	if _, err := s.transport.SendMessage(ctx, chatID, domain.OutgoingMessage{Text: text}); err != nil {
		return fmt.Errorf("failed to send notice: %w", err)
	}
	return nil
}

// deleteMessage removes a bot message best-effort
func (s *ConversationService) deleteMessage(ctx context.Context, chatID, messageID string) {
	if messageID == "" {
		return
	}

	err := s.transport.DeleteMessage(ctx, chatID, messageID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrMessageGone):
		logrus.Debugf("Message %s already gone", messageID)
	default:
		logrus.Warnf("Failed to delete message %s: %v", messageID, err)
	}
}

func (s *ConversationService) webAppLink(path, token string) string {
	if s.config.WebAppURL == "" {
		return ""
	}
	return strings.TrimRight(s.config.WebAppURL, "/") + path + "?token=" + url.QueryEscape(token)
}
