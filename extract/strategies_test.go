package extract_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/extract"
	"github.com/fwojciec/jobharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() extract.Config {
	return extract.Config{
		Timeouts: testTimeouts(),
		Sleep:    noopSleep,
	}
}

func TestForKind(t *testing.T) {
	t.Parallel()

	t.Run("constructs a strategy for every known kind", func(t *testing.T) {
		t.Parallel()

		kinds := []jobharvest.StrategyKind{
			jobharvest.KindDefault,
			jobharvest.KindEmbeddedBoard,
			jobharvest.KindClientRendered,
			jobharvest.KindDynamicHydration,
			jobharvest.KindGenericIframe,
		}
		for _, kind := range kinds {
			s, err := extract.ForKind(kind, testConfig())
			require.NoError(t, err, string(kind))
			assert.Equal(t, kind, s.Kind())
		}
	})

	t.Run("rejects an unknown kind", func(t *testing.T) {
		t.Parallel()

		_, err := extract.ForKind("selenium", testConfig())
		require.Error(t, err)
		assert.Equal(t, jobharvest.EINVALID, jobharvest.ErrorCode(err))
	})
}

func TestEmbeddedBoardStrategy(t *testing.T) {
	t.Parallel()

	t.Run("extracts from the resolved board frame", func(t *testing.T) {
		t.Parallel()

		frame := &mock.Document{
			QuerySelectorFn: func(_ context.Context, selector string, _ time.Duration) (jobharvest.Element, error) {
				require.Equal(t, "h1", selector)
				return mock.StaticElement("Open Roles", "<h1>Open Roles</h1>"), nil
			},
		}
		page := &mock.Page{
			FrameFn: func(_ context.Context, selector string, _ time.Duration) (jobharvest.Document, error) {
				require.Equal(t, "#grnhse_iframe", selector)
				return frame, nil
			},
			QuerySelectorFn: func(context.Context, string, time.Duration) (jobharvest.Element, error) {
				t.Fatal("main document queried despite a frame hit")
				return nil, nil
			},
		}

		s, err := extract.ForKind(jobharvest.KindEmbeddedBoard, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		s.WaitForContent(context.Background(), pc)

		result, err := s.ExtractElement(context.Background(), pc, "h1")
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, jobharvest.ContextIframe, result.Context)
		assert.Equal(t, "Open Roles", result.Text)
	})

	t.Run("falls back to the main document on a frame miss", func(t *testing.T) {
		t.Parallel()

		frame := &mock.Document{
			QuerySelectorFn: func(context.Context, string, time.Duration) (jobharvest.Element, error) {
				return nil, nil
			},
		}
		page := &mock.Page{
			FrameFn: func(context.Context, string, time.Duration) (jobharvest.Document, error) {
				return frame, nil
			},
			QuerySelectorFn: func(context.Context, string, time.Duration) (jobharvest.Element, error) {
				return mock.StaticElement("Open Roles", "<h1>Open Roles</h1>"), nil
			},
		}

		s, err := extract.ForKind(jobharvest.KindEmbeddedBoard, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		result, err := s.ExtractElement(context.Background(), pc, "h1")
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, jobharvest.ContextMain, result.Context)
	})

	t.Run("uses the main document when the frame does not resolve", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			FrameFn: func(context.Context, string, time.Duration) (jobharvest.Document, error) {
				return nil, jobharvest.Errorf(jobharvest.ENOTFOUND, "no frame")
			},
			QuerySelectorFn: func(context.Context, string, time.Duration) (jobharvest.Element, error) {
				return mock.StaticElement("Open Roles", "<h1>Open Roles</h1>"), nil
			},
		}

		s, err := extract.ForKind(jobharvest.KindEmbeddedBoard, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		result, err := s.ExtractElement(context.Background(), pc, "h1")
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, jobharvest.ContextMain, result.Context)
	})

	t.Run("reports not found when absent everywhere", func(t *testing.T) {
		t.Parallel()

		miss := func(context.Context, string, time.Duration) (jobharvest.Element, error) {
			return nil, nil
		}
		page := &mock.Page{
			FrameFn: func(context.Context, string, time.Duration) (jobharvest.Document, error) {
				return &mock.Document{QuerySelectorFn: miss}, nil
			},
			QuerySelectorFn: miss,
		}

		s, err := extract.ForKind(jobharvest.KindEmbeddedBoard, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		result, err := s.ExtractElement(context.Background(), pc, "h1")
		require.NoError(t, err)
		assert.False(t, result.Found)
		assert.Equal(t, jobharvest.ContextError, result.Context)
		assert.Contains(t, result.Err, "not found")
	})
}

func TestGenericIframeStrategy(t *testing.T) {
	t.Parallel()

	t.Run("resolves any iframe and extracts from it", func(t *testing.T) {
		t.Parallel()

		frame := &mock.Document{
			QuerySelectorFn: func(context.Context, string, time.Duration) (jobharvest.Element, error) {
				return mock.StaticElement("Jobs", "<ul>Jobs</ul>"), nil
			},
		}
		page := &mock.Page{
			FrameFn: func(_ context.Context, selector string, _ time.Duration) (jobharvest.Document, error) {
				require.Equal(t, "iframe", selector)
				return frame, nil
			},
		}

		s, err := extract.ForKind(jobharvest.KindGenericIframe, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		s.WaitForContent(context.Background(), pc)

		result, err := s.ExtractElement(context.Background(), pc, "ul")
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, jobharvest.ContextIframe, result.Context)
	})

	t.Run("falls back to the main document on a frame miss", func(t *testing.T) {
		t.Parallel()

		frame := &mock.Document{
			QuerySelectorFn: func(context.Context, string, time.Duration) (jobharvest.Element, error) {
				return nil, nil
			},
		}
		page := &mock.Page{
			FrameFn: func(context.Context, string, time.Duration) (jobharvest.Document, error) {
				return frame, nil
			},
			QuerySelectorFn: func(context.Context, string, time.Duration) (jobharvest.Element, error) {
				return mock.StaticElement("Jobs", "<ul>Jobs</ul>"), nil
			},
		}

		s, err := extract.ForKind(jobharvest.KindGenericIframe, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		result, err := s.ExtractElement(context.Background(), pc, "ul")
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, jobharvest.ContextMain, result.Context)
	})
}

func TestClientRenderedStrategy(t *testing.T) {
	t.Parallel()

	t.Run("waits for a framework marker before extracting", func(t *testing.T) {
		t.Parallel()

		markerQueries := 0
		page := &mock.Page{
			QuerySelectorFn: func(_ context.Context, selector string, _ time.Duration) (jobharvest.Element, error) {
				if selector == "app-root" {
					markerQueries++
					return mock.StaticElement("", "<app-root></app-root>"), nil
				}
				if selector == ".job" {
					return mock.StaticElement("Engineer", "<div class=\"job\">Engineer</div>"), nil
				}
				return nil, nil
			},
		}

		s, err := extract.ForKind(jobharvest.KindClientRendered, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		s.WaitForContent(context.Background(), pc)
		assert.Equal(t, 1, markerQueries)

		result, err := s.ExtractElement(context.Background(), pc, ".job")
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Equal(t, jobharvest.ContextMain, result.Context)
	})

	t.Run("accepts rendered body text in place of a marker", func(t *testing.T) {
		t.Parallel()

		longText := make([]byte, 200)
		for i := range longText {
			longText[i] = 'a'
		}
		page := &mock.Page{
			QuerySelectorFn: func(_ context.Context, selector string, _ time.Duration) (jobharvest.Element, error) {
				if selector == "body" {
					return mock.StaticElement(string(longText), "<body></body>"), nil
				}
				return nil, nil
			},
		}

		s, err := extract.ForKind(jobharvest.KindClientRendered, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		// Should satisfy readiness without exhausting the probe window.
		s.WaitForContent(context.Background(), pc)
	})
}

func TestDynamicHydrationStrategy(t *testing.T) {
	t.Parallel()

	t.Run("simulates interaction before waiting for hydration", func(t *testing.T) {
		t.Parallel()

		var mouseMoves int
		var scripts []string
		page := &mock.Page{
			MoveMouseFn: func(context.Context, float64, float64) error {
				mouseMoves++
				return nil
			},
			EvalFn: func(_ context.Context, script string) error {
				scripts = append(scripts, script)
				return nil
			},
		}

		s, err := extract.ForKind(jobharvest.KindDynamicHydration, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		s.WaitForContent(context.Background(), pc)

		assert.Equal(t, 2, mouseMoves)
		require.Len(t, scripts, 3)
		assert.Contains(t, scripts[0], "scrollBy(0, 100)")
		assert.Contains(t, scripts[1], "scrollBy(0, -100)")
		assert.Contains(t, scripts[2], "mouseover")
	})

	t.Run("abandons interaction on the first driver failure", func(t *testing.T) {
		t.Parallel()

		evals := 0
		page := &mock.Page{
			MoveMouseFn: func(context.Context, float64, float64) error {
				return jobharvest.Errorf(jobharvest.ECONNECTION, "browser gone")
			},
			EvalFn: func(context.Context, string) error {
				evals++
				return nil
			},
		}

		s, err := extract.ForKind(jobharvest.KindDynamicHydration, testConfig())
		require.NoError(t, err)

		pc := s.Setup(context.Background(), page)
		s.WaitForContent(context.Background(), pc)
		assert.Zero(t, evals)
	})
}
