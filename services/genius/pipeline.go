package genius

import (
	"context"

	"genius-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// FirstHit returns the best ranked track of a search.
// An empty hit list yields ErrNoResults, never a transport or decode error.
func FirstHit(resp *SearchResponse) (TrackResult, error) {
	if resp == nil || len(resp.Response.Hits) == 0 {
		return TrackResult{}, ErrNoResults
	}
	return resp.Response.Hits[0].Result, nil
}

// Lookup runs search, selection, page fetch, extraction and normalization
// for term. The first failing stage ends the lookup and is reported as a
// *PipelineError; no partial result is returned.
func (c *Client) Lookup(ctx context.Context, term string) (*LyricsResult, error) {
	log.Infof("%s [Genius] Searching: %s", logcolors.LogSearch, term)

	resp, err := c.Search(ctx, term)
	if err != nil {
		return nil, &PipelineError{Stage: StageSearch, Term: term, Err: err}
	}

	track, err := FirstHit(resp)
	if err != nil {
		log.Infof("%s [Genius] No hits for: %s", logcolors.LogNoResults, term)
		return nil, &PipelineError{Stage: StageSelect, Term: term, Err: err}
	}

	log.Infof("%s [Genius] Found track: %s (ID: %d, lyrics: %s)",
		logcolors.LogMatch, track.FullTitle, track.ID, track.LyricsState)

	page, err := c.FetchPage(ctx, track.LyricsURL)
	if err != nil {
		return nil, &PipelineError{Stage: StageFetch, Term: term, Err: err}
	}

	extracted := Extract(page)
	if !extracted.Found() {
		log.Warnf("%s [Genius] No lyrics container on page: %s", logcolors.LogExtract, track.LyricsURL)
	}

	lyrics := Normalize(extracted.Text)

	log.Infof("%s [Genius] Fetched lyrics for: %s (%d containers, %d bytes)",
		logcolors.LogSuccess, track.FullTitle, extracted.Containers, len(lyrics))

	return &LyricsResult{
		Track:      track,
		Lyrics:     lyrics,
		Containers: extracted.Containers,
	}, nil
}

// GetLyricsFor returns the normalized lyrics of the first hit for term.
// A page without a lyrics container yields "" with a nil error.
func (c *Client) GetLyricsFor(ctx context.Context, term string) (string, error) {
	result, err := c.Lookup(ctx, term)
	if err != nil {
		return "", err
	}
	return result.Lyrics, nil
}
