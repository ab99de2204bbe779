package youtube

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// ErrNoTranscript indicates the video has no caption track at all.
var ErrNoTranscript = errors.New("no transcript available")

// Transcript is the full caption text of a video with its detected language.
type Transcript struct {
	Text     string
	Language string
}

type trackList struct {
	Tracks []struct {
		Name     string `xml:"name,attr"`
		LangCode string `xml:"lang_code,attr"`
		Default  string `xml:"lang_default,attr"`
	} `xml:"track"`
}

type transcriptBody struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// FetchTranscript fetches and joins the caption track of a video via the
// timedtext endpoint. The default track is preferred; otherwise the first
// listed track is used. Returns ErrNoTranscript when no track exists.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (*Transcript, error) {
	name, langCode, err := c.pickTrack(ctx, videoID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", langCode)

	if name != "" {
		params.Set("name", name)
	}

	body, err := c.get(ctx, c.captionsURL, params)
	if err != nil {
		return nil, err
	}

	var parsed transcriptBody
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	lines := make([]string, 0, len(parsed.Lines))

	for _, line := range parsed.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text != "" {
			lines = append(lines, text)
		}
	}

	if len(lines) == 0 {
		return nil, ErrNoTranscript
	}

	return &Transcript{
		Text:     strings.Join(lines, " "),
		Language: normalizeLanguage(langCode),
	}, nil
}

// pickTrack lists the caption tracks of a video and selects one.
func (c *Client) pickTrack(ctx context.Context, videoID string) (name, langCode string, err error) {
	params := url.Values{}
	params.Set("type", "list")
	params.Set("v", videoID)

	body, err := c.get(ctx, c.captionsURL, params)
	if err != nil {
		return "", "", err
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return "", "", fmt.Errorf("decode track list: %w", err)
	}

	if len(list.Tracks) == 0 {
		return "", "", ErrNoTranscript
	}

	for _, track := range list.Tracks {
		if track.Default == "true" {
			return track.Name, track.LangCode, nil
		}
	}

	first := list.Tracks[0]

	return first.Name, first.LangCode, nil
}

// normalizeLanguage reduces a caption language tag to its base language
// ("en-US" → "en"). Unparseable tags are passed through unchanged.
func normalizeLanguage(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}

	base, _ := tag.Base()

	return base.String()
}
