package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReviewProduct is the product a review's order resolved to
type ReviewProduct struct {
	OfferID       string
	OfferName     string
	PlacementType string
}

// Review represents one unanswered buyer review (ephemeral, never persisted)
type Review struct {
	ID            string
	Author        string
	Rating        int // 0 when the buyer left no rating
	Advantages    string
	Disadvantages string
	Comment       string
	CreatedAt     time.Time
	RawCreatedAt  string // as reported, used when CreatedAt could not be parsed
	Photos        []string
	OrderID       string
	Product       *ReviewProduct // nil when no campaign reported the order
}

// Render formats the review for the chat
func (r Review) Render() string {
	var b strings.Builder

	author := r.Author
	if author == "" {
		author = "Unknown author"
	}
	created := r.RawCreatedAt
	if !r.CreatedAt.IsZero() {
		created = FormatReviewDate(r.CreatedAt)
	}
	fmt.Fprintf(&b, "Review from %s (%s):\n", author, created)
	if r.Rating > 0 {
		fmt.Fprintf(&b, "Rating: %d/5\n\n", r.Rating)
	} else {
		b.WriteString("Rating: none\n\n")
	}

	if r.Advantages != "" {
		fmt.Fprintf(&b, "Pros:\n%s\n\n", r.Advantages)
	}
	if r.Disadvantages != "" {
		fmt.Fprintf(&b, "Cons:\n%s\n\n", r.Disadvantages)
	}
	if r.Comment != "" {
		fmt.Fprintf(&b, "Comment:\n%s", r.Comment)
	}

	if r.Product != nil {
		fmt.Fprintf(&b, "\n\nProduct: %s (SKU: %s)", r.Product.OfferName, r.Product.OfferID)
		fmt.Fprintf(&b, "\nOrder #%s", r.OrderID)
		if r.Product.PlacementType != "" {
			fmt.Fprintf(&b, "\nFulfilment model: %s", r.Product.PlacementType)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Facts extracts what the reply generator needs
func (r Review) Facts(sellerName string) ReviewFacts {
	facts := ReviewFacts{
		Author:        r.Author,
		Advantages:    r.Advantages,
		Disadvantages: r.Disadvantages,
		Comment:       r.Comment,
		Rating:        r.Rating,
		SellerName:    sellerName,
	}
	if r.Product != nil {
		facts.ProductName = r.Product.OfferName
	}
	return facts
}

// ReviewFacts is the input of the reply generator
type ReviewFacts struct {
	Author        string
	Advantages    string
	Disadvantages string
	Comment       string
	Rating        int
	ProductName   string
	SellerName    string
}

// ReviewResult is one page of the unanswered review feed as the bot sees it.
// An empty ReviewID means the feed had nothing left.
type ReviewResult struct {
	ReviewID      string   `json:"review_id"`
	Review        string   `json:"review"`
	Reply         string   `json:"reply"`
	NextPageToken string   `json:"next_page_token"`
	Photos        []string `json:"photos"`
}

// HasReview reports whether the page carried a review
func (r ReviewResult) HasReview() bool {
	return r.ReviewID != ""
}
