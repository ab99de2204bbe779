package telegrambot

import (
	"context"
	"errors"
	"testing"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/core/youtube"
)

type fakePlaylistLister struct {
	refs   []string
	err    error
	lastID string
}

func (f *fakePlaylistLister) ListPlaylistItems(_ context.Context, playlistID string) ([]string, error) {
	f.lastID = playlistID

	return f.refs, f.err
}

func TestResolvePlaylistPassesRefsThroughUnchanged(t *testing.T) {
	lister := &fakePlaylistLister{refs: []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=aaaaaaaaaaa",
	}}

	refs, err := resolvePlaylist(context.Background(), lister, "https://www.youtube.com/playlist?list=PLtest123")
	if err != nil {
		t.Fatalf("resolvePlaylist() error = %v", err)
	}

	if lister.lastID != "PLtest123" {
		t.Errorf("lister called with playlist ID %q, want %q", lister.lastID, "PLtest123")
	}

	if len(refs) != len(lister.refs) {
		t.Fatalf("got %d refs, want %d", len(refs), len(lister.refs))
	}

	// The lister's watch URLs are already canonical job keys. Rewriting
	// them here would fork a playlist item from the /summarize cache row
	// for the same video.
	for i, ref := range refs {
		if ref != lister.refs[i] {
			t.Errorf("ref %d = %q, want %q unchanged", i, ref, lister.refs[i])
		}

		id, ok := youtube.ExtractVideoID(ref)
		if !ok {
			t.Errorf("ref %d %q does not parse as a video reference", i, ref)
		}

		if got := youtube.WatchURL(id); got != ref {
			t.Errorf("ref %d is not canonical: WatchURL(%q) = %q, ref = %q", i, id, got, ref)
		}
	}
}

func TestResolvePlaylistInvalidURL(t *testing.T) {
	lister := &fakePlaylistLister{}

	_, err := resolvePlaylist(context.Background(), lister, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if !errors.Is(err, errNotAPlaylist) {
		t.Fatalf("expected errNotAPlaylist, got %v", err)
	}

	if lister.lastID != "" {
		t.Errorf("lister must not be called for an invalid playlist URL, got ID %q", lister.lastID)
	}
}

func TestResolvePlaylistPropagatesListerError(t *testing.T) {
	lister := &fakePlaylistLister{err: youtube.ErrPlaylistNotFound}

	_, err := resolvePlaylist(context.Background(), lister, "https://www.youtube.com/playlist?list=PLgone")
	if !errors.Is(err, youtube.ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}
