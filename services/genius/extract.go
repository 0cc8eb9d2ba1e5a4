package genius

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// lyricsContainerSelector matches the blocks a Genius page renders lyrics into.
// A song may be split over several of them.
const lyricsContainerSelector = `div[data-lyrics-container="true"]`

// Extract pulls the lyrics text out of a lyrics page.
//
// Text fragments inside one container are joined with "\n", containers
// are joined with "\n\n" in document order. A page without containers,
// or one that cannot be parsed, yields an empty result rather than an error.
func Extract(page string) ExtractedLyrics {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return ExtractedLyrics{}
	}

	var blocks []string
	doc.Find(lyricsContainerSelector).Each(func(_ int, s *goquery.Selection) {
		var fragments []string
		for _, n := range s.Nodes {
			fragments = collectText(n, fragments)
		}
		blocks = append(blocks, strings.Join(fragments, "\n"))
	})

	return ExtractedLyrics{
		Text:       strings.Join(blocks, "\n\n"),
		Containers: len(blocks),
	}
}

// collectText appends every descendant text node of n, in document order.
func collectText(n *html.Node, fragments []string) []string {
	if n.Type == html.TextNode {
		return append(fragments, n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fragments = collectText(c, fragments)
	}
	return fragments
}
