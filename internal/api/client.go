// Package api adapts the Al Adhan prayer-time and calendar endpoints onto
// the retrying fetch client.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/smokyabdulrahman/ramadan-times/internal/fetch"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// RamadanMonth is the Hijri month number of Ramadan.
const RamadanMonth = 9

// Location is the fixed viewpoint every request is made for.
type Location struct {
	Latitude  float64
	Longitude float64
	// Method and School are provider identifiers; negative means "provider default".
	Method   int
	School   int
	Timezone string
}

// Client communicates with the Al Adhan API.
type Client struct {
	fetch    *fetch.Client
	location Location
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a client for loc. A nil fetcher gets fetch.New().
func NewClient(f *fetch.Client, loc Location) *Client {
	if f == nil {
		f = fetch.New()
	}
	return &Client{
		fetch:    f,
		location: loc,
		BaseURL:  defaultBaseURL,
	}
}

// Location returns the configured location.
func (c *Client) Location() Location {
	return c.location
}

// FetchTimings fetches the prayer times for a single day.
func (c *Client) FetchTimings(ctx context.Context, date time.Time) (*Data, error) {
	params := c.locationParams()
	if c.location.Timezone != "" {
		params.Set("timezonestring", c.location.Timezone)
	}
	params.Set("iso8601", "false")

	var data Data
	req := fetch.Request{
		Name:   "timings",
		URL:    fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006")),
		Params: params,
	}
	if err := c.fetch.Get(ctx, req, &data); err != nil {
		return nil, fmt.Errorf("fetch timings for %s: %w", date.Format("2006-01-02"), err)
	}
	return &data, nil
}

// ConvertToHijri converts a single Gregorian date.
func (c *Client) ConvertToHijri(ctx context.Context, date time.Time) (*HijriDate, error) {
	var conv Conversion
	req := fetch.Request{
		Name: "gToH",
		URL:  fmt.Sprintf("%s/gToH/%s", c.BaseURL, date.Format("02-01-2006")),
	}
	if err := c.fetch.Get(ctx, req, &conv); err != nil {
		return nil, fmt.Errorf("convert %s to hijri: %w", date.Format("2006-01-02"), err)
	}
	return &conv.Hijri, nil
}

// FetchMonthCalendar returns every day of a Gregorian month.
func (c *Client) FetchMonthCalendar(ctx context.Context, year, month, adjustment int) ([]Data, error) {
	params := c.locationParams()
	params.Set("adjustment", strconv.Itoa(adjustment))

	var days []Data
	req := fetch.Request{
		Name:   "calendar",
		URL:    fmt.Sprintf("%s/calendar/%d/%d", c.BaseURL, year, month),
		Params: params,
	}
	if err := c.fetch.Get(ctx, req, &days); err != nil {
		return nil, fmt.Errorf("fetch calendar for %d-%02d: %w", year, month, err)
	}
	return days, nil
}

// FetchHijriMonth returns every day of a Hijri month under the given adjustment.
func (c *Client) FetchHijriMonth(ctx context.Context, hijriYear, month, adjustment int) ([]Data, error) {
	params := c.locationParams()
	params.Set("month", strconv.Itoa(month))
	params.Set("year", strconv.Itoa(hijriYear))
	params.Set("adjustment", strconv.Itoa(adjustment))
	params.Set("annual", "false")

	var days []Data
	req := fetch.Request{
		Name:   "hijriCalendar",
		URL:    c.BaseURL + "/hijriCalendar",
		Params: params,
	}
	if err := c.fetch.Get(ctx, req, &days); err != nil {
		return nil, fmt.Errorf("fetch hijri month %d/%d: %w", month, hijriYear, err)
	}
	return days, nil
}

func (c *Client) locationParams() url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(c.location.Latitude, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(c.location.Longitude, 'f', 6, 64))
	if c.location.Method >= 0 {
		params.Set("method", strconv.Itoa(c.location.Method))
	}
	if c.location.School >= 0 {
		params.Set("school", strconv.Itoa(c.location.School))
	}
	return params
}
