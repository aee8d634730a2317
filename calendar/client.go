/*
Package calendar fetches per-company worked-hours totals for a worker and
payroll period from the external hours-tracking service.

The allocation engine treats calendar data as optional: a failed or absent
fetch degrades to an empty map, never to an error. Supersession of
in-flight fetches is handled by Loader.
*/
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bracket2code/salary-engine/payroll"
)

// Period is one payroll month, the granularity calendar hours are
// aggregated at.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Key renders the period as "YYYY-MM", the wire and cache identity.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// ParsePeriod parses the "YYYY-MM" wire form back into a Period.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// Client talks to the hours-tracking HTTP API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient returns a client with a sane request timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// companyHoursDTO is one row of the upstream response.
type companyHoursDTO struct {
	CompanyID   string  `json:"companyId"`
	CompanyName string  `json:"companyName"`
	Hours       float64 `json:"hours"`
}

// WorkedHours fetches the per-company hour totals for one worker and
// period. Rows are keyed with the same identity precedence the engine
// uses, so calendar buckets line up with contract groups.
func (c *Client) WorkedHours(ctx context.Context, workerID string, period Period) (payroll.CalendarHours, error) {
	endpoint := fmt.Sprintf("%s/workers/%s/hours?period=%s",
		c.BaseURL, url.PathEscape(workerID), period.Key())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar api: unexpected status %d", resp.StatusCode)
	}

	var rows []companyHoursDTO
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("calendar api: decode: %w", err)
	}

	hours := make(payroll.CalendarHours, len(rows))
	for _, row := range rows {
		key := payroll.ResolveCompanyIdentity(row.CompanyID, row.CompanyName)
		hours[key] = hours[key].Add(decimal.NewFromFloat(row.Hours))
	}
	return hours, nil
}
