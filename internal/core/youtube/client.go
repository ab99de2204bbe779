package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	dataAPIBaseURL      = "https://www.googleapis.com/youtube/v3"
	timedtextBaseURL    = "https://video.google.com/timedtext"
	defaultTimeout      = 30 * time.Second
	defaultRPS          = 5
	playlistPageSize    = 50
	maxPlaylistPages    = 100
	paramKey            = "key"
	paramPart           = "part"
	paramID             = "id"
	paramPlaylistID     = "playlistId"
	paramMaxResults     = "maxResults"
	paramPageToken      = "pageToken"
	partSnippetDetails  = "snippet,contentDetails"
	partContentDetails  = "contentDetails"
	reasonQuotaExceeded = "quotaExceeded"
)

var (
	// ErrVideoNotFound indicates the Data API returned no item for a video ID.
	ErrVideoNotFound = errors.New("video not found")

	// ErrPlaylistNotFound indicates the playlist does not exist or is private.
	ErrPlaylistNotFound = errors.New("playlist not found or private")

	// ErrAPIQuotaExhausted indicates the Data API key ran out of quota.
	ErrAPIQuotaExhausted = errors.New("youtube api quota exhausted")

	errUnexpectedStatus = errors.New("youtube api unexpected status")
)

// Video holds the display metadata fetched for a single video.
type Video struct {
	ID           string
	Title        string
	ChannelTitle string
	Duration     time.Duration
	PublishedAt  time.Time
}

// Config holds the client configuration.
type Config struct {
	APIKey  string
	RPS     int
	Timeout time.Duration
}

// Client talks to the YouTube Data API v3 and the timedtext endpoint.
type Client struct {
	apiKey      string
	apiBaseURL  string
	captionsURL string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger
}

// NewClient creates a Data API client with rate limiting.
func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}

	return &Client{
		apiKey:      cfg.APIKey,
		apiBaseURL:  dataAPIBaseURL,
		captionsURL: timedtextBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rps)), rps),
		logger:      logger,
	}
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// FetchMetadata fetches title, channel, duration and publish date for a video.
// Returns ErrVideoNotFound when the API knows no such video.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) (*Video, error) {
	params := url.Values{}
	params.Set(paramKey, c.apiKey)
	params.Set(paramPart, partSnippetDetails)
	params.Set(paramID, videoID)

	body, err := c.get(ctx, c.apiBaseURL+"/videos", params)
	if err != nil {
		return nil, err
	}

	var resp videoListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode videos response: %w", err)
	}

	if len(resp.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	item := resp.Items[0]

	duration, err := ParseISODuration(item.ContentDetails.Duration)
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Msg("unparseable video duration")
	}

	publishedAt, err := dateparse.ParseAny(item.Snippet.PublishedAt)
	if err != nil {
		c.logger.Warn().Err(err).Str("video_id", videoID).Msg("unparseable publish date")
	}

	return &Video{
		ID:           videoID,
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		Duration:     duration,
		PublishedAt:  publishedAt,
	}, nil
}

// ListPlaylistItems returns the ordered watch URLs of all videos in a
// playlist, following pagination internally.
func (c *Client) ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error) {
	var refs []string

	pageToken := ""

	for page := 0; page < maxPlaylistPages; page++ {
		params := url.Values{}
		params.Set(paramKey, c.apiKey)
		params.Set(paramPart, partContentDetails)
		params.Set(paramPlaylistID, playlistID)
		params.Set(paramMaxResults, fmt.Sprint(playlistPageSize))

		if pageToken != "" {
			params.Set(paramPageToken, pageToken)
		}

		body, err := c.get(ctx, c.apiBaseURL+"/playlistItems", params)
		if err != nil {
			return nil, err
		}

		var resp playlistItemsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode playlist response: %w", err)
		}

		for _, item := range resp.Items {
			if item.ContentDetails.VideoID != "" {
				refs = append(refs, WatchURL(item.ContentDetails.VideoID))
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if len(refs) == 0 {
		return nil, ErrPlaylistNotFound
	}

	return refs, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("youtube rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create youtube request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read youtube response: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	return nil, c.classifyAPIError(resp.StatusCode, body)
}

func (c *Client) classifyAPIError(status int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		for _, e := range apiErr.Error.Errors {
			if e.Reason == reasonQuotaExceeded {
				return ErrAPIQuotaExhausted
			}
		}

		if apiErr.Error.Code == http.StatusNotFound {
			return ErrPlaylistNotFound
		}

		if apiErr.Error.Message != "" {
			return fmt.Errorf("%w: %d: %s", errUnexpectedStatus, status, apiErr.Error.Message)
		}
	}

	return fmt.Errorf("%w: %d", errUnexpectedStatus, status)
}
