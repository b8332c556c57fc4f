package application

import (
	"errors"
	"fmt"
	"strconv"

	"review-replier/internal/domain"
)

// Chat copy
const (
	textWelcome           = "Hello, %s! Choose a marketplace to start answering reviews."
	textAuthorize         = "Welcome! Authorize in the web app to connect your marketplace accounts, then send /start again."
	textChooseMarketplace = "Choose a marketplace account:"
	textChooseAccount     = "Choose a %s account:"
	textNoAccounts        = "You have no connected marketplace accounts yet. Add one in the web app."
	textAccountSelected   = "Account %q selected. What would you like to do?"
	textMainMenu          = "What would you like to do?"
	textLoading           = "Loading the review and preparing a reply..."
	textNoMoreReviews     = "There are no more reviews waiting for a reply."
	textSuggestedReply    = "Suggested reply:\n\n%s"
	textNoSuggestion      = "There is no suggested reply for this review. Write your own instead."
	textWriteOwn          = "Write your reply in the next message."
	textConfirmDraft      = "Your reply:\n\n%s\n\nSend it?"
	textNothingToConfirm  = "There is nothing to confirm right now."
	textReplySent         = "The reply has been sent."
	textSubmissionFailed  = "The reply could not be sent. Please try again later."
	textNoInputExpected   = "I am not expecting a message right now. Please use the buttons."
	textUnknownCommand    = "Unknown command. Send /start to begin."
	textUnknownAction     = "This button is no longer active. Send /start to begin again."

	textHelp = "How it works:\n\n" +
		"1. Connect your marketplace accounts in the web app.\n" +
		"2. Choose an account and tap \"Get review\".\n" +
		"3. Send the suggested reply as is, or write your own.\n" +
		"4. Tap \"Next review\" to skip to the following one.\n\n" +
		"Send /start at any time to start over."
)

// Failure copy, one per error kind
const (
	textAuthRequired      = "You are not authorized. Send /start to sign in."
	textNoAccountSelected = "Select a marketplace account first."
	textNoReviewSelected  = "Get a review before sending a reply."
	textAccountNotFound   = "This account is no longer available. Choose another one."
	textInvalidRequest    = "This action is not valid any more. Send /start to begin again."
	textTemporaryFailure  = "The service is temporarily unavailable. Please try again later."
)

// failureText maps an event failure to the message shown in the chat
func failureText(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrUserNotFound):
		return textAuthRequired
	case errors.Is(err, domain.ErrNoAccountSelected):
		return textNoAccountSelected
	case errors.Is(err, domain.ErrNoReviewSelected):
		return textNoReviewSelected
	case errors.Is(err, domain.ErrAccountNotFound):
		return textAccountNotFound
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrMarketplaceNotSupported):
		return textInvalidRequest
	default:
		return textTemporaryFailure
	}
}

var (
	buttonGetReview         = domain.Button{Text: "Get review", Data: domain.ActionGetReview}
	buttonNextReview        = domain.Button{Text: "Next review", Data: domain.ActionNextReview}
	buttonChooseMarketplace = domain.Button{Text: "Choose marketplace", Data: domain.ActionChooseMarketplace}
	buttonHelp              = domain.Button{Text: "Help", Data: domain.ActionHelp}
	buttonSendSuggested     = domain.Button{Text: "Send suggested reply", Data: domain.ActionSendSuggested}
	buttonWriteOwn          = domain.Button{Text: "Write my own", Data: domain.ActionWriteOwn}
	buttonConfirmYes        = domain.Button{Text: "Yes, send", Data: domain.ActionConfirmYes}
	buttonConfirmNo         = domain.Button{Text: "No, change it", Data: domain.ActionConfirmNo}
)

func mainMenu(text string) domain.OutgoingMessage {
	return domain.OutgoingMessage{
		Text:     text,
		Keyboard: domain.NewKeyboard(buttonGetReview, buttonChooseMarketplace, buttonHelp),
	}
}

func welcomeMessage(name, manageURL, photoURL string) domain.OutgoingMessage {
	buttons := []domain.Button{buttonChooseMarketplace}
	if manageURL != "" {
		buttons = append(buttons, domain.Button{Text: "Manage accounts", URL: manageURL})
	}
	buttons = append(buttons, buttonHelp)
	return domain.OutgoingMessage{
		Text:     fmt.Sprintf(textWelcome, name),
		Keyboard: domain.NewKeyboard(buttons...),
		PhotoURL: photoURL,
	}
}

func authorizeMessage(authURL string) domain.OutgoingMessage {
	buttons := []domain.Button{}
	if authURL != "" {
		buttons = append(buttons, domain.Button{Text: "Authorize", URL: authURL})
	}
	buttons = append(buttons, buttonHelp)
	return domain.OutgoingMessage{Text: textAuthorize, Keyboard: domain.NewKeyboard(buttons...)}
}

func helpMessage() domain.OutgoingMessage {
	return domain.OutgoingMessage{
		Text:     textHelp,
		Keyboard: domain.NewKeyboard(buttonChooseMarketplace),
	}
}

// marketplaceMenu lists marketplaces in first-seen order. A marketplace with a
// single account selects it directly.
func marketplaceMenu(accounts []domain.AccountSummary) domain.OutgoingMessage {
	order, groups := domain.GroupByMarketplace(accounts)

	buttons := make([]domain.Button, 0, len(order)+1)
	for _, marketplace := range order {
		group := groups[marketplace]
		if len(group) == 1 {
			buttons = append(buttons, accountButton(group[0]))
			continue
		}
		buttons = append(buttons, domain.Button{
			Text: fmt.Sprintf("%s (%d)", marketplace, len(group)),
			Data: domain.ActionChooseAccountPrefix + marketplace,
		})
	}
	buttons = append(buttons, buttonHelp)

	return domain.OutgoingMessage{Text: textChooseMarketplace, Keyboard: domain.NewKeyboard(buttons...)}
}

func accountMenu(marketplace string, accounts []domain.AccountSummary) domain.OutgoingMessage {
	buttons := make([]domain.Button, 0, len(accounts)+1)
	for _, acc := range accounts {
		buttons = append(buttons, accountButton(acc))
	}
	buttons = append(buttons, domain.Button{Text: "Back", Data: domain.ActionChooseMarketplace})

	return domain.OutgoingMessage{
		Text:     fmt.Sprintf(textChooseAccount, marketplace),
		Keyboard: domain.NewKeyboard(buttons...),
	}
}

func accountButton(acc domain.AccountSummary) domain.Button {
	return domain.Button{
		Text: fmt.Sprintf("%s: %s", acc.Marketplace, acc.AccountName),
		Data: domain.ActionSelectAccountPrefix + strconv.FormatInt(acc.ID, 10),
	}
}

func noAccountsMessage(manageURL string) domain.OutgoingMessage {
	buttons := []domain.Button{}
	if manageURL != "" {
		buttons = append(buttons, domain.Button{Text: "Manage accounts", URL: manageURL})
	}
	buttons = append(buttons, buttonHelp)
	return domain.OutgoingMessage{Text: textNoAccounts, Keyboard: domain.NewKeyboard(buttons...)}
}

func replyChoiceMessage(suggestion string) domain.OutgoingMessage {
	return domain.OutgoingMessage{
		Text:     fmt.Sprintf(textSuggestedReply, suggestion),
		Keyboard: domain.NewKeyboard(buttonSendSuggested, buttonWriteOwn, buttonNextReview),
	}
}

func confirmDraftMessage(draft string) domain.OutgoingMessage {
	return domain.OutgoingMessage{
		Text:     fmt.Sprintf(textConfirmDraft, draft),
		Keyboard: &domain.Keyboard{Rows: [][]domain.Button{{buttonConfirmYes, buttonConfirmNo}}},
	}
}
