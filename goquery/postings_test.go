package goquery_test

import (
	"testing"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure PostingParser implements jobharvest.PostingParser at compile time.
var _ jobharvest.PostingParser = (*goquery.PostingParser)(nil)

func TestPostingParser_ParsePostings(t *testing.T) {
	t.Parallel()

	t.Run("extracts postings from a list board", func(t *testing.T) {
		t.Parallel()

		html := `<ul class="openings">
	<li>
		<a href="/jobs/backend-engineer">Backend Engineer</a>
		<span class="location">Berlin</span>
	</li>
	<li>
		<a href="/jobs/data-engineer">Data Engineer</a>
		<span class="location">Remote</span>
	</li>
</ul>`

		p := goquery.NewPostingParser()
		jobs, err := p.ParsePostings(html, "https://careers.example.com")

		require.NoError(t, err)
		require.Len(t, jobs, 2)

		assert.Equal(t, "Backend Engineer", jobs[0].Title)
		assert.Equal(t, "https://careers.example.com/jobs/backend-engineer", jobs[0].URL)
		assert.Equal(t, "Berlin", jobs[0].Location)

		assert.Equal(t, "Data Engineer", jobs[1].Title)
		assert.Equal(t, "Remote", jobs[1].Location)
	})

	t.Run("prefers a title node inside the anchor", func(t *testing.T) {
		t.Parallel()

		html := `<div class="board">
	<a href="/jobs/1">
		<h3 class="job-title">Platform Engineer</h3>
		<span class="location">Warsaw</span>
	</a>
</div>`

		p := goquery.NewPostingParser()
		jobs, err := p.ParsePostings(html, "https://careers.example.com")

		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "Platform Engineer", jobs[0].Title)
		assert.Equal(t, "Warsaw", jobs[0].Location)
	})

	t.Run("deduplicates postings by resolved URL", func(t *testing.T) {
		t.Parallel()

		html := `<div>
	<a href="/jobs/1">Backend Engineer</a>
	<a href="https://careers.example.com/jobs/1">Backend Engineer</a>
</div>`

		p := goquery.NewPostingParser()
		jobs, err := p.ParsePostings(html, "https://careers.example.com")

		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})

	t.Run("skips anchors without a usable href or title", func(t *testing.T) {
		t.Parallel()

		html := `<div>
	<a href="#top">Back to top</a>
	<a href="mailto:jobs@example.com">Email us</a>
	<a href="javascript:void(0)">Apply</a>
	<a href="/jobs/1"></a>
	<a href="/jobs/2">Site Reliability Engineer</a>
</div>`

		p := goquery.NewPostingParser()
		jobs, err := p.ParsePostings(html, "https://careers.example.com")

		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "Site Reliability Engineer", jobs[0].Title)
	})

	t.Run("collapses whitespace in titles", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/jobs/1">
	Backend
	Engineer
</a>`

		p := goquery.NewPostingParser()
		jobs, err := p.ParsePostings(html, "https://careers.example.com")

		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "Backend Engineer", jobs[0].Title)
	})

	t.Run("rejects an invalid base URL", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewPostingParser()
		_, err := p.ParsePostings("<a href='/jobs/1'>X</a>", "://bad")
		require.Error(t, err)
		assert.Equal(t, jobharvest.EINVALID, jobharvest.ErrorCode(err))
	})

	t.Run("empty board yields no postings", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewPostingParser()
		jobs, err := p.ParsePostings("<div class='openings'></div>", "https://careers.example.com")
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})
}
