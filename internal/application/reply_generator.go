package application

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"review-replier/internal/domain"
	"review-replier/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Reply generation defaults
const (
	DefaultReplyMaxTokens   = 280
	DefaultReplyTemperature = 0.8
	DefaultReplyMaxLength   = 280

	FallbackReply = "Thank you for your feedback! We appreciate you taking the time to share your experience and will use it to get even better."

	DefaultSystemPrompt = "You are the reputation manager of an online store answering buyer reviews on a marketplace. " +
		"Write a short, polite and professional reply on behalf of the seller. " +
		"Thank the buyer, stay calm and de-escalate complaints, emphasise the positives the buyer mentioned, " +
		"and where there is a problem offer a constructive alternative such as contacting support or exchanging the item. " +
		"Never argue with the buyer and never invent facts about the order. " +
		"Answer in the language of the review, in plain text without greetings by placeholder names."
)

// ReplyGeneratorConfig holds the generation settings
type ReplyGeneratorConfig struct {
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	MaxLength    int // runes
}

// ReplyGenerator struct - Application service writing suggested replies.
// Generation is best-effort: any failure yields FallbackReply.
type ReplyGenerator struct {
	generator output.TextGenerator
	config    ReplyGeneratorConfig
}

// NewReplyGenerator func - Creates new reply generator, filling unset settings with defaults
func NewReplyGenerator(generator output.TextGenerator, config ReplyGeneratorConfig) *ReplyGenerator {
	if config.SystemPrompt == "" {
		config.SystemPrompt = DefaultSystemPrompt
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultReplyMaxTokens
	}
	if config.Temperature <= 0 {
		config.Temperature = DefaultReplyTemperature
	}
	if config.MaxLength <= 0 {
		config.MaxLength = DefaultReplyMaxLength
	}
	return &ReplyGenerator{generator: generator, config: config}
}

// Generate returns a reply for the review, never an error
func (g *ReplyGenerator) Generate(ctx context.Context, facts domain.ReviewFacts) string {
	text, err := g.generator.Complete(ctx, output.CompletionRequest{
		SystemPrompt: g.config.SystemPrompt,
		UserPrompt:   buildReplyPrompt(facts),
		MaxTokens:    g.config.MaxTokens,
		Temperature:  g.config.Temperature,
	})
	if err != nil {
		logrus.Warnf("Reply generation failed, using fallback: %v", err)
		return FallbackReply
	}

	text = truncateAtWord(strings.TrimSpace(text), g.config.MaxLength)
	if text == "" {
		logrus.Warn("Reply generation returned empty text, using fallback")
		return FallbackReply
	}
	return text
}

func buildReplyPrompt(facts domain.ReviewFacts) string {
	var b strings.Builder
	b.WriteString("Write a reply to this buyer review.\n")

	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	line("Seller", facts.SellerName)
	line("Product", facts.ProductName)
	line("Buyer", facts.Author)
	if facts.Rating > 0 {
		fmt.Fprintf(&b, "Rating: %d/5\n", facts.Rating)
	}
	line("Pros", facts.Advantages)
	line("Cons", facts.Disadvantages)
	line("Comment", facts.Comment)

	return strings.TrimRight(b.String(), "\n")
}

// truncateAtWord cuts s to at most limit runes, preferring the last word boundary
func truncateAtWord(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := runes[:limit]
	for i := len(cut) - 1; i > limit/2; i-- {
		if unicode.IsSpace(cut[i]) {
			cut = cut[:i]
			break
		}
	}
	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == ':' || r == '-'
	})
}
