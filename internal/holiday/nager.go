package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-lapak/internal/resilience"
)

// NagerClient fetches upcoming public holidays from the Nager.Date API.
type NagerClient struct {
	BaseURL string
	HTTP    resilience.HTTPClient
}

// NextPublicHolidays calls /api/v3/NextPublicHolidays/{countryCode}.
func (c NagerClient) NextPublicHolidays(ctx context.Context, countryCode string) ([]Holiday, error) {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = "https://date.nager.at"
	}
	url := fmt.Sprintf("%s/api/v3/NextPublicHolidays/%s", base, countryCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday feed returned %s", resp.Status)
	}
	var holidays []Holiday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, fmt.Errorf("decode holiday feed: %w", err)
	}
	return holidays, nil
}
