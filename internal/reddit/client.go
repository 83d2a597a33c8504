// Package reddit fetches posts through the Reddit OAuth API.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	tokenURL = "https://www.reddit.com/api/v1/access_token"
	apiBase  = "https://oauth.reddit.com"

	userAgent = "owobot/1.0"
)

// Post is a single Reddit submission.
type Post struct {
	Fullname  string
	Subreddit string
	Title     string
	URL       string
	Permalink string
	Over18    bool
}

// Lister pages through a subreddit's newest submissions.
type Lister interface {
	ListNew(ctx context.Context, subreddit, after string, limit int) ([]Post, string, error)
}

// Client implements Lister against the live Reddit API using a refresh token.
type Client struct {
	appID        string
	secret       string
	refreshToken string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewClient builds an authenticated Reddit client.
func NewClient(appID, secret, refreshToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		appID:        appID,
		secret:       secret,
		refreshToken: refreshToken,
		httpClient:   httpClient,
	}
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.refreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("reddit: build token request: %w", err)
	}

	req.SetBasicAuth(c.appID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reddit: request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reddit: token endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("reddit: decode token response: %w", err)
	}

	c.accessToken = payload.AccessToken
	c.expiresAt = time.Now().Add(time.Duration(payload.ExpiresIn-60) * time.Second)

	return c.accessToken, nil
}

// ListNew returns one page of the subreddit's newest posts and the cursor for
// the next page. An empty cursor means the listing is exhausted.
func (c *Client) ListNew(ctx context.Context, subreddit, after string, limit int) ([]Post, string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, "", err
	}

	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if after != "" {
		query.Set("after", after)
	}

	endpoint := fmt.Sprintf("%s/r/%s/new?%s", apiBase, url.PathEscape(subreddit), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("reddit: build listing request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("reddit: request listing: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, "", fmt.Errorf("reddit: r/%s: %w", subreddit, ErrSubredditForbidden)
	case http.StatusNotFound:
		return nil, "", fmt.Errorf("reddit: r/%s: %w", subreddit, ErrSubredditNotFound)
	case http.StatusTooManyRequests:
		return nil, "", fmt.Errorf("reddit: r/%s: %w", subreddit, ErrRateLimited)
	default:
		return nil, "", fmt.Errorf("reddit: listing returned %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			After    string `json:"after"`
			Children []struct {
				Data struct {
					Name      string `json:"name"`
					Subreddit string `json:"subreddit"`
					Title     string `json:"title"`
					URL       string `json:"url"`
					Permalink string `json:"permalink"`
					Over18    bool   `json:"over_18"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("reddit: decode listing: %w", err)
	}

	posts := make([]Post, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		posts = append(posts, Post{
			Fullname:  child.Data.Name,
			Subreddit: child.Data.Subreddit,
			Title:     child.Data.Title,
			URL:       child.Data.URL,
			Permalink: child.Data.Permalink,
			Over18:    child.Data.Over18,
		})
	}

	return posts, payload.Data.After, nil
}
