package holiday

import "context"

// Holiday is one upcoming public holiday from the external feed.
type Holiday struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	LocalName string `json:"localName"`
}

// Provider defines the behaviour required to list upcoming public holidays.
type Provider interface {
	NextPublicHolidays(ctx context.Context, countryCode string) ([]Holiday, error)
}

// MockProvider returns static holidays and is useful for testing and
// development.
type MockProvider struct{}

// NextPublicHolidays returns canned holidays regardless of the country code.
func (MockProvider) NextPublicHolidays(ctx context.Context, countryCode string) ([]Holiday, error) {
	_ = ctx
	return []Holiday{
		{Date: "2026-09-07", Name: "Labour Day", LocalName: "Labor Day"},
		{Date: "2026-10-12", Name: "Columbus Day", LocalName: "Columbus Day"},
		{Date: "2026-11-11", Name: "Veterans Day", LocalName: "Veterans Day"},
	}, nil
}
