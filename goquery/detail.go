package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobharvest"
)

// maxLabelLen filters out prose that happens to sit in a tag-like node.
const maxLabelLen = 40

var _ jobharvest.DetailParser = (*DetailParser)(nil)

// DetailParser extracts the description text and candidate technology
// labels from a job-card element's HTML.
type DetailParser struct{}

// NewDetailParser creates a new DetailParser.
func NewDetailParser() *DetailParser {
	return &DetailParser{}
}

// ParseDetail returns the card's collapsed text content as the description
// and the texts of tag-like nodes as candidate labels. Labels are
// deduplicated case-insensitively, preserving first-seen casing.
func (p *DetailParser) ParseDetail(html string) (string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", nil, jobharvest.Errorf(jobharvest.EINVALID, "failed to parse HTML: %v", err)
	}

	description := collapse(doc.Text())

	seen := make(map[string]bool)
	var labels []string
	doc.Find("[class*=tag], [class*=skill], [class*=badge], [class*=chip]").Each(func(_ int, sel *goquery.Selection) {
		label := collapse(sel.Text())
		if label == "" || len(label) > maxLabelLen {
			return
		}
		key := strings.ToLower(label)
		if seen[key] {
			return
		}
		seen[key] = true
		labels = append(labels, label)
	})

	return description, labels, nil
}
