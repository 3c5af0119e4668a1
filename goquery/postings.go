// Package goquery implements the HTML parsers: extracted job-board
// fragments become postings and job-card fragments become detail content.
// Parsing is offline; nothing in this package touches the network.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobharvest"
)

var _ jobharvest.PostingParser = (*PostingParser)(nil)

// PostingParser extracts individual postings from a job-board element's
// HTML. Every in-scope anchor with a usable title becomes one posting;
// duplicates by resolved URL are kept once.
type PostingParser struct{}

// NewPostingParser creates a new PostingParser.
func NewPostingParser() *PostingParser {
	return &PostingParser{}
}

// ParsePostings parses the board fragment and returns discovered postings.
// URLs are resolved against baseURL. Titles come from a heading or
// title-classed node inside the anchor when present, else the anchor text.
func (p *PostingParser) ParsePostings(html string, baseURL string) ([]*jobharvest.Job, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, jobharvest.Errorf(jobharvest.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, jobharvest.Errorf(jobharvest.EINVALID, "failed to parse HTML: %v", err)
	}

	// Deduplicate by resolved URL, keeping first occurrence order.
	seen := make(map[string]bool)
	var jobs []*jobharvest.Job

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !usableHref(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}

		title := postingTitle(sel)
		if title == "" {
			return
		}

		seen[resolved] = true
		jobs = append(jobs, &jobharvest.Job{
			Title:    title,
			URL:      resolved,
			Location: postingLocation(sel),
		})
	})

	return jobs, nil
}

func usableHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
		return false
	}
	return true
}

// postingTitle prefers a heading or title-classed node inside the anchor;
// boards without one get the collapsed anchor text.
func postingTitle(sel *goquery.Selection) string {
	if heading := sel.Find("h1, h2, h3, h4, h5, h6, [class*=title]").First(); heading.Length() > 0 {
		return collapse(heading.Text())
	}
	return collapse(sel.Text())
}

// postingLocation looks for a location-classed node inside the anchor, then
// inside the anchor's list-item or row container.
func postingLocation(sel *goquery.Selection) string {
	if loc := sel.Find("[class*=location]").First(); loc.Length() > 0 {
		return collapse(loc.Text())
	}
	if loc := sel.Closest("li, tr, div").Find("[class*=location]").First(); loc.Length() > 0 {
		return collapse(loc.Text())
	}
	return ""
}

// collapse trims and squeezes runs of whitespace to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveURL resolves a relative URL against a base URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
