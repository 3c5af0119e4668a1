//go:build integration

package rod_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Browser implements jobharvest.Browser.
var _ jobharvest.Browser = (*rod.Browser)(nil)

const boardHTML = `<!DOCTYPE html>
<html>
<body>
	<ul class="jobs">
		<li class="job-card"><a href="/jobs/1">Backend Engineer</a></li>
		<li class="job-card"><a href="/jobs/2">Data Engineer</a></li>
	</ul>
</body>
</html>`

func newBoardServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/frame":
			fmt.Fprintf(w, `<html><body><iframe id="board_frame" src="%s/"></iframe></body></html>`, "http://"+r.Host)
		default:
			fmt.Fprint(w, boardHTML)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBrowser_QuerySelector(t *testing.T) {
	t.Parallel()

	srv := newBoardServer(t)

	browser, err := rod.NewBrowser()
	require.NoError(t, err)
	defer browser.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := browser.NewPage(ctx)
	require.NoError(t, err)
	defer page.Close()

	require.NoError(t, page.Navigate(ctx, srv.URL))
	assert.True(t, page.WaitLoadState(ctx, jobharvest.LoadDOMReady, 5*time.Second))

	el, err := page.QuerySelector(ctx, ".jobs", 2*time.Second)
	require.NoError(t, err)
	require.NotNil(t, el)

	text, err := el.Text(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Backend Engineer")

	html, err := el.HTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, `class="job-card"`)

	class, err := el.Attribute(ctx, "class")
	require.NoError(t, err)
	assert.Equal(t, "jobs", class)
}

func TestBrowser_QuerySelector_MissIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := newBoardServer(t)

	browser, err := rod.NewBrowser()
	require.NoError(t, err)
	defer browser.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := browser.NewPage(ctx)
	require.NoError(t, err)
	defer page.Close()

	require.NoError(t, page.Navigate(ctx, srv.URL))
	page.WaitLoadState(ctx, jobharvest.LoadDOMReady, 5*time.Second)

	// Immediate check without waiting.
	el, err := page.QuerySelector(ctx, ".does-not-exist", 0)
	require.NoError(t, err)
	assert.Nil(t, el)

	// Bounded wait that will expire.
	el, err = page.QuerySelector(ctx, ".does-not-exist", 200*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, el)
}

func TestBrowser_Frame(t *testing.T) {
	t.Parallel()

	srv := newBoardServer(t)

	browser, err := rod.NewBrowser()
	require.NoError(t, err)
	defer browser.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := browser.NewPage(ctx)
	require.NoError(t, err)
	defer page.Close()

	require.NoError(t, page.Navigate(ctx, srv.URL+"/frame"))
	page.WaitLoadState(ctx, jobharvest.LoadNetworkIdle, 5*time.Second)

	doc, err := page.Frame(ctx, "#board_frame", 5*time.Second)
	require.NoError(t, err)

	el, err := doc.QuerySelector(ctx, ".jobs", 2*time.Second)
	require.NoError(t, err)
	require.NotNil(t, el)

	text, err := el.Text(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Data Engineer")

	_, err = page.Frame(ctx, "#missing_frame", 0)
	require.Error(t, err)
	assert.Equal(t, jobharvest.ENOTFOUND, jobharvest.ErrorCode(err))
}

func TestBrowser_EvalAndMoveMouse(t *testing.T) {
	t.Parallel()

	srv := newBoardServer(t)

	browser, err := rod.NewBrowser()
	require.NoError(t, err)
	defer browser.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := browser.NewPage(ctx)
	require.NoError(t, err)
	defer page.Close()

	require.NoError(t, page.Navigate(ctx, srv.URL))
	page.WaitLoadState(ctx, jobharvest.LoadDOMReady, 5*time.Second)

	assert.NoError(t, page.MoveMouse(ctx, 100, 100))
	assert.NoError(t, page.Eval(ctx, "window.scrollBy(0, 100)"))
	assert.NoError(t, page.Eval(ctx, "document.body.dispatchEvent(new MouseEvent('mouseover', {bubbles: true}))"))
}

func TestBrowser_NewPage_ContextCancellation(t *testing.T) {
	t.Parallel()

	browser, err := rod.NewBrowser()
	require.NoError(t, err)
	defer browser.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = browser.NewPage(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
