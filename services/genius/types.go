package genius

import "encoding/json"

// SearchResponse is the envelope returned by the Genius search endpoint
type SearchResponse struct {
	Meta     Meta     `json:"meta"`
	Response Response `json:"response"`
}

// Meta carries the status reported inside the JSON body
type Meta struct {
	Status int `json:"status"`
}

// Response holds the ranked hits; index 0 is the best match
type Response struct {
	Hits []Hit `json:"hits"`
}

// Hit wraps a single search result
type Hit struct {
	Result TrackResult `json:"result"`
}

// TrackResult describes one song returned by a search
type TrackResult struct {
	Title           string `json:"title"`
	FullTitle       string `json:"full_title"`
	ArtistNames     string `json:"artist_names"`
	ID              int64  `json:"id"`
	APIPath         string `json:"api_path"`
	LyricsState     string `json:"lyrics_state"` // "complete", "unreleased", ...
	SongArtImageURL string `json:"song_art_image_url"`
	LyricsURL       string `json:"lyrics_url"`
}

// UnmarshalJSON accepts the lyrics page under either "lyrics_url" or "url".
func (t *TrackResult) UnmarshalJSON(data []byte) error {
	type plain TrackResult
	var aux struct {
		plain
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*t = TrackResult(aux.plain)
	if t.LyricsURL == "" {
		t.LyricsURL = aux.URL
	}
	return nil
}

// wireSearchResponse mirrors SearchResponse with pointers so that missing
// envelope sections can be told apart from empty ones.
type wireSearchResponse struct {
	Meta *struct {
		Status *int `json:"status"`
	} `json:"meta"`
	Response *struct {
		Hits *[]wireHit `json:"hits"`
	} `json:"response"`
}

type wireHit struct {
	Result *TrackResult `json:"result"`
}

// ExtractedLyrics is the raw text pulled from a lyrics page.
// Containers is the number of lyrics containers matched; zero means the
// page had no recognizable lyrics block.
type ExtractedLyrics struct {
	Text       string
	Containers int
}

// Found reports whether at least one lyrics container was matched
func (e ExtractedLyrics) Found() bool {
	return e.Containers > 0
}

// LyricsResult is the outcome of a full lookup
type LyricsResult struct {
	Track      TrackResult `json:"track"`
	Lyrics     string      `json:"lyrics"`
	Containers int         `json:"containers"`
}

// Found reports whether the page carried any lyrics container
func (r *LyricsResult) Found() bool {
	return r.Containers > 0
}
