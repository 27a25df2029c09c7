package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const BaseURL = "https://www.strava.com/api/v3"

// DefaultPerPage is Strava's maximum page size for activity listings
const DefaultPerPage = 200

// Client fetches activities from the Strava API. It holds no tokens:
// every call takes the bearer token the caller obtained from the auth
// manager, so token refresh stays out of this package entirely.
type Client struct {
	httpClient *http.Client
	baseURL    string
	perPage    int
	limiter    *RateLimiter
}

// NewClient creates a new Strava API client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    BaseURL,
		perPage:    DefaultPerPage,
		limiter:    NewRateLimiter(),
	}
}

// GetActivities fetches one page of the athlete's activities
func (c *Client) GetActivities(ctx context.Context, accessToken string, page, perPage int) ([]Activity, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	reqURL := c.baseURL + "/athlete/activities?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.limiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, classifyStatus(resp.StatusCode, body)
	}

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return activities, nil
}

// FetchAll retrieves the athlete's complete activity history.
//
// Pages are requested strictly in order with one request in flight,
// since the server's only termination signal is page length. onPage,
// when non-nil, is invoked after each non-empty page with the page
// number and the running record count. Any page failure aborts the
// whole fetch; partial results are discarded, not returned.
func (c *Client) FetchAll(ctx context.Context, accessToken string, onPage func(page, fetched int)) ([]Activity, error) {
	var all []Activity
	page := 1

	for {
		activities, err := c.GetActivities(ctx, accessToken, page, c.perPage)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(activities) == 0 {
			break
		}

		all = append(all, activities...)

		if onPage != nil {
			onPage(page, len(all))
		}

		if lastPage(len(activities), c.perPage) {
			break
		}

		page++
	}

	return all, nil
}

// RateLimitStatus returns the remaining request budget
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.limiter.Remaining()
}

// lastPage is the pagination exit predicate: a page shorter than
// requested is the final one.
func lastPage(count, perPage int) bool {
	return count < perPage
}
