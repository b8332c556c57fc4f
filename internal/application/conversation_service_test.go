package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"review-replier/internal/adapters/output/memory"
	"review-replier/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testChatID = "100"
	testUserID = "200"
)

var testSessionKey = domain.SessionKey{ChatID: testChatID, UserID: testUserID}

type conversationFixture struct {
	service   *ConversationService
	store     *memory.MemorySessionStore
	transport *MockChatTransport
	backend   *MockReviewBackend
}

func newConversationFixture(backend *MockReviewBackend) *conversationFixture {
	if backend == nil {
		backend = &MockReviewBackend{}
	}
	store := memory.NewMemorySessionStore()
	transport := &MockChatTransport{}
	service := NewConversationService(store, transport, backend, ConversationConfig{
		WebAppURL: "https://replier.example.com/",
	})
	return &conversationFixture{service: service, store: store, transport: transport, backend: backend}
}

func (f *conversationFixture) seed(mutate func(*domain.SessionData)) {
	f.store.Update(testSessionKey, mutate)
}

func (f *conversationFixture) session() domain.SessionData {
	return f.store.Get(testSessionKey)
}

func (f *conversationFixture) tap(t *testing.T, payload string) {
	t.Helper()
	require.NoError(t, f.service.HandleEvent(context.Background(), buttonEvent(payload)))
}

func (f *conversationFixture) say(t *testing.T, text string) {
	t.Helper()
	require.NoError(t, f.service.HandleEvent(context.Background(), textEvent(text)))
}

func buttonEvent(payload string) domain.Event {
	return domain.Event{Kind: domain.EventKindButton, ChatID: testChatID, UserID: testUserID, Payload: payload}
}

func textEvent(text string) domain.Event {
	return domain.Event{Kind: domain.EventKindText, ChatID: testChatID, UserID: testUserID, Payload: text}
}

func commandEvent(name string) domain.Event {
	return domain.Event{Kind: domain.EventKindCommand, ChatID: testChatID, UserID: testUserID, Payload: name}
}

func withAccount(d *domain.SessionData) {
	d.SelectedAccountID = 7
	d.Marketplace = domain.MarketplaceYandex
}

func withReview(d *domain.SessionData) {
	withAccount(d)
	d.ReviewID = "r1"
	d.Review = "Review from Ivan"
	d.SuggestedReply = "Thank you, Ivan!"
	d.NextPageToken = "c2"
}

func buttonData(msg domain.OutgoingMessage) []string {
	var data []string
	if msg.Keyboard == nil {
		return data
	}
	for _, row := range msg.Keyboard.Rows {
		for _, b := range row {
			if b.Data != "" {
				data = append(data, b.Data)
			} else {
				data = append(data, b.URL)
			}
		}
	}
	return data
}

// TestFetchWithoutAccountAsksToSelect tests the fetch guard
func TestFetchWithoutAccountAsksToSelect(t *testing.T) {
	f := newConversationFixture(nil)

	f.tap(t, domain.ActionGetReview)

	assert.Empty(t, f.backend.ReviewRequests, "no remote call without an account")
	assert.Equal(t, textNoAccountSelected, f.transport.Last().Message.Text)
	assert.Equal(t, domain.SessionData{}, f.session())
}

// TestFetchChainsCursor tests that call n+1 receives the cursor returned by call n
func TestFetchChainsCursor(t *testing.T) {
	var calls int
	backend := &MockReviewBackend{
		GetReviewFunc: func(request domain.GetReviewRequest) (*domain.ReviewResult, error) {
			calls++
			return &domain.ReviewResult{
				ReviewID:      fmt.Sprintf("r%d", calls),
				Review:        "text",
				Reply:         "reply",
				NextPageToken: fmt.Sprintf("c%d", calls),
			}, nil
		},
	}
	f := newConversationFixture(backend)
	f.seed(withAccount)

	f.tap(t, domain.ActionGetReview)
	for i := 0; i < 5; i++ {
		f.tap(t, domain.ActionNextReview)
	}

	require.Len(t, backend.ReviewRequests, 6)
	assert.Equal(t, "", backend.ReviewRequests[0].PageToken, "first fetch carries no cursor")
	for n := 1; n < len(backend.ReviewRequests); n++ {
		assert.Equal(t, fmt.Sprintf("c%d", n), backend.ReviewRequests[n].PageToken)
	}
	assert.Equal(t, "r6", f.session().ReviewID)
}

// TestNextReviewUsesStoredCursor tests that "next" sends the stored cursor and "get" sends none
func TestNextReviewUsesStoredCursor(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)

	f.tap(t, domain.ActionNextReview)
	require.Len(t, f.backend.ReviewRequests, 1)
	assert.Equal(t, "c2", f.backend.ReviewRequests[0].PageToken)
	assert.Equal(t, int64(7), f.backend.ReviewRequests[0].AccountID)
	assert.Equal(t, testUserID, f.backend.ReviewRequests[0].UserID)

	f.seed(withReview)
	f.tap(t, domain.ActionGetReview)
	require.Len(t, f.backend.ReviewRequests, 2)
	assert.Equal(t, "", f.backend.ReviewRequests[1].PageToken)
}

// TestFetchFailureLeavesSessionUnchanged tests that a remote 500 only produces a notice
func TestFetchFailureLeavesSessionUnchanged(t *testing.T) {
	backend := &MockReviewBackend{
		GetReviewFunc: func(request domain.GetReviewRequest) (*domain.ReviewResult, error) {
			return nil, &domain.RemoteError{Provider: "backend", StatusCode: 500, Message: "boom"}
		},
	}
	f := newConversationFixture(backend)
	f.seed(withReview)
	f.seed(func(d *domain.SessionData) { d.LastBotMessageID = "50" })
	before := f.session()

	f.tap(t, domain.ActionNextReview)

	assert.Equal(t, before, f.session())
	assert.Equal(t, textTemporaryFailure, f.transport.Last().Message.Text)
}

// TestFetchStoresReviewAndPresentsChoices tests a successful fetch
func TestFetchStoresReviewAndPresentsChoices(t *testing.T) {
	backend := &MockReviewBackend{
		GetReviewFunc: func(request domain.GetReviewRequest) (*domain.ReviewResult, error) {
			return &domain.ReviewResult{
				ReviewID:      "r9",
				Review:        "Review from Anna",
				Reply:         "Thank you, Anna!",
				NextPageToken: "c10",
				Photos:        []string{"https://img/1.jpg", "https://img/2.jpg"},
			}, nil
		},
	}
	f := newConversationFixture(backend)
	f.seed(withAccount)
	f.seed(func(d *domain.SessionData) { d.Mode = domain.ModeWaitingForCustomReply })

	f.tap(t, domain.ActionGetReview)

	session := f.session()
	assert.Equal(t, "r9", session.ReviewID)
	assert.Equal(t, "Thank you, Anna!", session.SuggestedReply)
	assert.Equal(t, "c10", session.NextPageToken)
	assert.Equal(t, domain.ModeNone, session.Mode)

	require.Len(t, f.transport.Photos, 1)
	assert.Len(t, f.transport.Photos[0], 2)

	texts := f.transport.Texts()
	require.Len(t, texts, 3)
	assert.Equal(t, textLoading, texts[0])
	assert.Equal(t, "Review from Anna", texts[1])
	assert.Contains(t, texts[2], "Thank you, Anna!")

	last := f.transport.Last()
	assert.Equal(t, []string{domain.ActionSendSuggested, domain.ActionWriteOwn, domain.ActionNextReview}, buttonData(last.Message))
	assert.Equal(t, last.ID, session.LastBotMessageID)
	assert.Contains(t, f.transport.Deleted, f.transport.Sent[0].ID, "loading notice removed")
}

// TestFetchExhaustedFeedReturnsToMenu tests the normal end of pagination
func TestFetchExhaustedFeedReturnsToMenu(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)

	f.tap(t, domain.ActionNextReview)

	session := f.session()
	assert.Empty(t, session.ReviewID)
	assert.Empty(t, session.SuggestedReply)
	assert.Empty(t, session.NextPageToken)
	assert.Equal(t, domain.ModeNone, session.Mode)
	assert.Equal(t, int64(7), session.SelectedAccountID)

	last := f.transport.Last().Message
	assert.Equal(t, textNoMoreReviews, last.Text)
	assert.Contains(t, buttonData(last), domain.ActionGetReview)
}

// TestSubmitWithoutReviewIsRejectedLocally tests that no remote call happens without a fetched review
func TestSubmitWithoutReviewIsRejectedLocally(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withAccount)
	f.seed(func(d *domain.SessionData) { d.SuggestedReply = "stale" })

	f.tap(t, domain.ActionSendSuggested)
	assert.Equal(t, textNoReviewSelected, f.transport.Last().Message.Text)

	f.seed(func(d *domain.SessionData) { d.SetDraft("mine") })
	f.tap(t, domain.ActionConfirmYes)
	assert.Equal(t, textNoReviewSelected, f.transport.Last().Message.Text)

	assert.Empty(t, f.backend.ReplyRequests)
}

// TestSendSuggestedWithoutSuggestion tests the suggestion guard
func TestSendSuggestedWithoutSuggestion(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)
	f.seed(func(d *domain.SessionData) { d.SuggestedReply = "" })

	f.tap(t, domain.ActionSendSuggested)

	assert.Empty(t, f.backend.ReplyRequests)
	assert.Equal(t, textNoSuggestion, f.transport.Last().Message.Text)
}

// TestSendSuggestedReturnsToMenu tests the suggested path of a successful submission
func TestSendSuggestedReturnsToMenu(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)

	f.tap(t, domain.ActionSendSuggested)

	require.Len(t, f.backend.ReplyRequests, 1)
	assert.Equal(t, domain.SendReplyRequest{
		UserID:    testUserID,
		AccountID: 7,
		ReviewID:  "r1",
		Text:      "Thank you, Ivan!",
	}, f.backend.ReplyRequests[0])

	assert.Equal(t, domain.ModeNone, f.session().Mode)
	assert.Contains(t, f.transport.Texts(), textReplySent)
	assert.Equal(t, textMainMenu, f.transport.Last().Message.Text)
}

// TestSubmissionFailureStillReturnsToMenu tests that a failed submission never strands the user
func TestSubmissionFailureStillReturnsToMenu(t *testing.T) {
	backend := &MockReviewBackend{
		SendReplyFunc: func(request domain.SendReplyRequest) error {
			return &domain.RemoteError{Provider: "backend", StatusCode: 502, Message: "bad gateway"}
		},
	}
	f := newConversationFixture(backend)
	f.seed(withReview)
	f.seed(func(d *domain.SessionData) { d.SetDraft("My reply") })

	f.tap(t, domain.ActionConfirmYes)

	assert.Equal(t, domain.ModeNone, f.session().Mode)
	texts := f.transport.Texts()
	assert.Contains(t, texts, textSubmissionFailed)
	assert.NotContains(t, texts, textReplySent)
	assert.Equal(t, textMainMenu, f.transport.Last().Message.Text)
}

// TestSendSuggestedResubmissionIsNotDeduplicated pins a known limitation:
// re-pressing the button posts the same reply again, the marketplace may keep both.
func TestSendSuggestedResubmissionIsNotDeduplicated(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)

	f.tap(t, domain.ActionSendSuggested)
	f.tap(t, domain.ActionSendSuggested)

	require.Len(t, f.backend.ReplyRequests, 2)
	assert.Equal(t, f.backend.ReplyRequests[0], f.backend.ReplyRequests[1])
}

// TestFreeTextWhileIdleDoesNotTouchDraft tests the catch-all arm
func TestFreeTextWhileIdleDoesNotTouchDraft(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)
	f.seed(func(d *domain.SessionData) { d.CustomReply = "old draft" })
	before := f.session()

	f.say(t, "hello")

	assert.Equal(t, before, f.session())
	assert.Equal(t, textNoInputExpected, f.transport.Last().Message.Text)
}

// TestFreeTextWhileConfirmingIsNotADraft tests that only the waiting mode accepts text
func TestFreeTextWhileConfirmingIsNotADraft(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)
	f.seed(func(d *domain.SessionData) { d.SetDraft("first") })

	f.say(t, "second")

	assert.Equal(t, "first", f.session().CustomReply)
	assert.Equal(t, domain.ModeConfirmingReply, f.session().Mode)
	assert.Equal(t, textNoInputExpected, f.transport.Last().Message.Text)
}

// TestCustomReplyConfirmationFlow tests writing, rejecting, rewriting and sending a draft
func TestCustomReplyConfirmationFlow(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)

	f.tap(t, domain.ActionWriteOwn)
	assert.Equal(t, domain.ModeWaitingForCustomReply, f.session().Mode)

	f.say(t, "Thanks!")
	assert.Equal(t, domain.ModeConfirmingReply, f.session().Mode)
	assert.Equal(t, "Thanks!", f.session().CustomReply)
	last := f.transport.Last().Message
	assert.Contains(t, last.Text, "Thanks!")
	assert.Equal(t, []string{domain.ActionConfirmYes, domain.ActionConfirmNo}, buttonData(last))

	f.tap(t, domain.ActionConfirmNo)
	assert.Equal(t, domain.ModeWaitingForCustomReply, f.session().Mode)
	assert.Equal(t, "Thanks!", f.session().CustomReply, "rejecting keeps the previous draft")

	f.say(t, "Thank you!")
	assert.Equal(t, "Thank you!", f.session().CustomReply)

	f.tap(t, domain.ActionConfirmYes)
	require.Len(t, f.backend.ReplyRequests, 1)
	assert.Equal(t, "Thank you!", f.backend.ReplyRequests[0].Text)
	assert.Equal(t, "r1", f.backend.ReplyRequests[0].ReviewID)
	assert.Equal(t, domain.ModeNone, f.session().Mode)
	assert.Equal(t, textMainMenu, f.transport.Last().Message.Text)
}

// TestEmptyDraftIsNotAccepted tests that blank text re-prompts
func TestEmptyDraftIsNotAccepted(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)
	f.seed(func(d *domain.SessionData) { d.Mode = domain.ModeWaitingForCustomReply })

	f.say(t, "   ")

	assert.Equal(t, domain.ModeWaitingForCustomReply, f.session().Mode)
	assert.Empty(t, f.session().CustomReply)
	assert.Equal(t, textWriteOwn, f.transport.Last().Message.Text)
}

// TestConfirmWithoutReviewReturnsToMenu tests a draft written before any review was fetched
func TestConfirmWithoutReviewReturnsToMenu(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withAccount)

	f.tap(t, domain.ActionWriteOwn)
	f.say(t, "Thanks!")
	require.Equal(t, domain.ModeConfirmingReply, f.session().Mode)

	f.tap(t, domain.ActionConfirmYes)

	assert.Empty(t, f.backend.ReplyRequests)
	assert.Equal(t, domain.ModeNone, f.session().Mode)
	assert.Equal(t, "Thanks!", f.session().CustomReply)
}

// TestConfirmOutsideConfirmation tests the confirmation guards
func TestConfirmOutsideConfirmation(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(withReview)

	f.tap(t, domain.ActionConfirmYes)
	assert.Equal(t, textNothingToConfirm, f.transport.Last().Message.Text)

	f.tap(t, domain.ActionConfirmNo)
	assert.Equal(t, textNothingToConfirm, f.transport.Last().Message.Text)

	assert.Empty(t, f.backend.ReplyRequests)
	assert.Equal(t, domain.ModeNone, f.session().Mode)
}

// TestPresentReplacesPreviousMessage tests the delete-then-send pattern
func TestPresentReplacesPreviousMessage(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(func(d *domain.SessionData) { d.LastBotMessageID = "41" })

	f.tap(t, domain.ActionHelp)

	assert.Equal(t, []string{"41"}, f.transport.Deleted)
	assert.Equal(t, textHelp, f.transport.Last().Message.Text)
	assert.Equal(t, f.transport.Last().ID, f.session().LastBotMessageID)
}

// TestPresentAbsorbsDeleteFailures tests that a gone or undeletable message never fails the event
func TestPresentAbsorbsDeleteFailures(t *testing.T) {
	for name, deleteErr := range map[string]error{
		"gone":  domain.ErrMessageGone,
		"other": errors.New("network down"),
	} {
		t.Run(name, func(t *testing.T) {
			f := newConversationFixture(nil)
			f.transport.DeleteMessageFunc = func(chatID, messageID string) error { return deleteErr }
			f.seed(func(d *domain.SessionData) { d.LastBotMessageID = "41" })

			f.tap(t, domain.ActionHelp)

			assert.Len(t, f.transport.Sent, 1)
			assert.Equal(t, textHelp, f.transport.Last().Message.Text)
			assert.Equal(t, f.transport.Last().ID, f.session().LastBotMessageID)
		})
	}
}

// TestNoticesKeepLastBotMessage tests that plain notices do not replace the UI message
func TestNoticesKeepLastBotMessage(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(func(d *domain.SessionData) { d.LastBotMessageID = "41" })

	f.say(t, "hello")

	assert.Empty(t, f.transport.Deleted)
	assert.Equal(t, "41", f.session().LastBotMessageID)
}

// TestRestartClearsSessionAndShowsWelcome tests /start for a registered user
func TestRestartClearsSessionAndShowsWelcome(t *testing.T) {
	f := newConversationFixture(nil)
	f.service.config.WelcomeImageURL = "https://img/welcome.png"
	f.seed(withReview)
	f.seed(func(d *domain.SessionData) {
		d.SetDraft("draft")
		d.LastBotMessageID = "9"
	})

	require.NoError(t, f.service.HandleEvent(context.Background(), commandEvent(domain.CommandStart)))

	assert.Equal(t, []string{"9"}, f.transport.Deleted)

	last := f.transport.Last()
	assert.Equal(t, domain.SessionData{LastBotMessageID: last.ID}, f.session())
	assert.Contains(t, last.Message.Text, "Seller")
	assert.Equal(t, "https://img/welcome.png", last.Message.PhotoURL)
	assert.Equal(t, []string{
		domain.ActionChooseMarketplace,
		"https://replier.example.com/accounts?token=token-1",
		domain.ActionHelp,
	}, buttonData(last.Message))
}

// TestRestartUnauthorizedShowsAuthorize tests /start for an unregistered user
func TestRestartUnauthorizedShowsAuthorize(t *testing.T) {
	var infoCalled bool
	backend := &MockReviewBackend{
		IsAuthorizedFunc: func(userID string) (bool, error) { return false, nil },
		EnsureTokenFunc:  func(userID string) (string, error) { return "fresh token", nil },
		UserInfoFunc: func(userID string) (*domain.UserInfo, error) {
			infoCalled = true
			return nil, domain.ErrUserNotFound
		},
	}
	f := newConversationFixture(backend)

	require.NoError(t, f.service.HandleEvent(context.Background(), commandEvent(domain.CommandStart)))

	last := f.transport.Last().Message
	assert.Equal(t, textAuthorize, last.Text)
	assert.Contains(t, buttonData(last), "https://replier.example.com/auth?token=fresh+token")
	assert.False(t, infoCalled)
}

// TestRestartBackendDownIsReported tests that a failing authorization check becomes a notice
func TestRestartBackendDownIsReported(t *testing.T) {
	backend := &MockReviewBackend{
		IsAuthorizedFunc: func(userID string) (bool, error) {
			return false, &domain.RemoteError{Provider: "backend", Message: "connection refused"}
		},
	}
	f := newConversationFixture(backend)

	f.seed(withReview)
	f.seed(func(d *domain.SessionData) { d.LastBotMessageID = "9" })
	before := f.session()

	require.NoError(t, f.service.HandleEvent(context.Background(), commandEvent(domain.CommandStart)))

	assert.Equal(t, textTemporaryFailure, f.transport.Last().Message.Text)
	assert.Equal(t, before, f.session(), "session survives a failed restart")
	assert.Empty(t, f.transport.Deleted)
}

// TestUnknownCommandAndButton tests the fallbacks of the other dispatch arms
func TestUnknownCommandAndButton(t *testing.T) {
	f := newConversationFixture(nil)

	require.NoError(t, f.service.HandleEvent(context.Background(), commandEvent("settings")))
	assert.Equal(t, textUnknownCommand, f.transport.Last().Message.Text)

	f.tap(t, "something_else")
	assert.Equal(t, textUnknownAction, f.transport.Last().Message.Text)
}

// TestAuthRequiredIsReported tests the auth failure notice
func TestAuthRequiredIsReported(t *testing.T) {
	backend := &MockReviewBackend{
		ListAccountsFunc: func(userID string) ([]domain.AccountSummary, error) {
			return nil, fmt.Errorf("list: %w", domain.ErrAuthRequired)
		},
	}
	f := newConversationFixture(backend)

	f.tap(t, domain.ActionChooseMarketplace)

	assert.Equal(t, textAuthRequired, f.transport.Last().Message.Text)
}

// TestMarketplaceMenuGroupsAccounts tests marketplace and account selection menus
func TestMarketplaceMenuGroupsAccounts(t *testing.T) {
	backend := &MockReviewBackend{
		ListAccountsFunc: func(userID string) ([]domain.AccountSummary, error) {
			return []domain.AccountSummary{
				{ID: 1, Marketplace: domain.MarketplaceYandex, AccountName: "North"},
				{ID: 2, Marketplace: "Other", AccountName: "Solo"},
				{ID: 3, Marketplace: domain.MarketplaceYandex, AccountName: "South"},
			}, nil
		},
	}
	f := newConversationFixture(backend)

	f.tap(t, domain.ActionChooseMarketplace)
	assert.Equal(t, []string{
		domain.ActionChooseAccountPrefix + domain.MarketplaceYandex,
		domain.ActionSelectAccountPrefix + "2",
		domain.ActionHelp,
	}, buttonData(f.transport.Last().Message))

	f.tap(t, domain.ActionChooseAccountPrefix+domain.MarketplaceYandex)
	assert.Equal(t, []string{
		domain.ActionSelectAccountPrefix + "1",
		domain.ActionSelectAccountPrefix + "3",
		domain.ActionChooseMarketplace,
	}, buttonData(f.transport.Last().Message))
}

// TestMarketplaceMenuWithoutAccounts tests the empty account list
func TestMarketplaceMenuWithoutAccounts(t *testing.T) {
	backend := &MockReviewBackend{
		ListAccountsFunc: func(userID string) ([]domain.AccountSummary, error) { return nil, nil },
	}
	f := newConversationFixture(backend)

	f.tap(t, domain.ActionChooseMarketplace)

	last := f.transport.Last().Message
	assert.Equal(t, textNoAccounts, last.Text)
	assert.Contains(t, buttonData(last), "https://replier.example.com/accounts?token=token-1")
}

// TestSelectAccountSwitchesAccount tests account selection and its validation
func TestSelectAccountSwitchesAccount(t *testing.T) {
	f := newConversationFixture(nil)
	f.seed(func(d *domain.SessionData) {
		d.SelectedAccountID = 3
		d.NextPageToken = "c5"
		d.ReviewID = "r4"
	})

	f.tap(t, domain.ActionSelectAccountPrefix+"7")

	session := f.session()
	assert.Equal(t, int64(7), session.SelectedAccountID)
	assert.Equal(t, domain.MarketplaceYandex, session.Marketplace)
	assert.Empty(t, session.NextPageToken)
	assert.Empty(t, session.ReviewID)
	assert.Equal(t, domain.ModeNone, session.Mode)
	assert.Contains(t, buttonData(f.transport.Last().Message), domain.ActionGetReview)

	f.tap(t, domain.ActionSelectAccountPrefix+"99")
	assert.Equal(t, textAccountNotFound, f.transport.Last().Message.Text)

	f.tap(t, domain.ActionSelectAccountPrefix+"abc")
	assert.Equal(t, textInvalidRequest, f.transport.Last().Message.Text)

	assert.Equal(t, int64(7), f.session().SelectedAccountID)
}

// TestEventsForOneKeyAreSerialized tests that a double tap cannot interleave remote calls
func TestEventsForOneKeyAreSerialized(t *testing.T) {
	var inFlight, maxInFlight int32
	backend := &MockReviewBackend{
		GetReviewFunc: func(request domain.GetReviewRequest) (*domain.ReviewResult, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				m := atomic.LoadInt32(&maxInFlight)
				if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return &domain.ReviewResult{ReviewID: "r", Review: "text", Reply: "reply", NextPageToken: request.PageToken + "x"}, nil
		},
	}
	f := newConversationFixture(backend)
	f.seed(withAccount)

	const taps = 10
	var wg sync.WaitGroup
	for i := 0; i < taps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.service.HandleEvent(context.Background(), buttonEvent(domain.ActionNextReview))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
	assert.Equal(t, strings.Repeat("x", taps), f.session().NextPageToken, "no update was lost")
}

// TestEventsForDifferentKeysRunConcurrently tests that a slow call for one user does not block another
func TestEventsForDifferentKeysRunConcurrently(t *testing.T) {
	var entered sync.WaitGroup
	entered.Add(2)
	release := make(chan struct{})

	backend := &MockReviewBackend{
		GetReviewFunc: func(request domain.GetReviewRequest) (*domain.ReviewResult, error) {
			entered.Done()
			<-release
			return &domain.ReviewResult{}, nil
		},
	}
	f := newConversationFixture(backend)

	otherKey := domain.SessionKey{ChatID: "101", UserID: "201"}
	f.seed(withAccount)
	f.store.Update(otherKey, withAccount)

	var done sync.WaitGroup
	for _, key := range []domain.SessionKey{testSessionKey, otherKey} {
		done.Add(1)
		go func(key domain.SessionKey) {
			defer done.Done()
			_ = f.service.HandleEvent(context.Background(), domain.Event{
				Kind:    domain.EventKindButton,
				ChatID:  key.ChatID,
				UserID:  key.UserID,
				Payload: domain.ActionGetReview,
			})
		}(key)
	}

	bothEntered := make(chan struct{})
	go func() {
		entered.Wait()
		close(bothEntered)
	}()

	select {
	case <-bothEntered:
	case <-time.After(2 * time.Second):
		t.Fatal("events for different users were serialized")
	}
	close(release)
	done.Wait()
}

// TestHandleEventFailsWhenNoticeCannotBeSent tests the only error returned to the dispatcher
func TestHandleEventFailsWhenNoticeCannotBeSent(t *testing.T) {
	f := newConversationFixture(nil)
	f.transport.SendMessageFunc = func(chatID string, message domain.OutgoingMessage) (string, error) {
		return "", errors.New("chat unreachable")
	}

	err := f.service.HandleEvent(context.Background(), textEvent("hello"))

	assert.Error(t, err)
}
