package domain

import (
	"strings"
	"time"
)

const (
	// ReviewDateLayout is how review creation times are shown
	ReviewDateLayout = "02.01.2006 15:04"
	// MarketplaceTimeZoneName is the zone marketplace sellers think in
	MarketplaceTimeZoneName = "MSK"
)

// Moscow is UTC+3 without daylight saving
var marketplaceLocation = time.FixedZone(MarketplaceTimeZoneName, 3*60*60)

// ParseMarketplaceTime parses timestamps such as "2025-01-27T11:35:23.1+03:00"
func ParseMarketplaceTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
}

// FormatReviewDate renders t as "27.01.2025 11:35 MSK"
func FormatReviewDate(t time.Time) string {
	return t.In(marketplaceLocation).Format(ReviewDateLayout) + " " + MarketplaceTimeZoneName
}
