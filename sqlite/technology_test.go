package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTechnologyService_CreateTechnology(t *testing.T) {
	t.Parallel()

	t.Run("creates a technology and assigns an id", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewTechnologyService(mustOpenDB(t))

		tech := &jobharvest.Technology{Name: "Go"}
		require.NoError(t, s.CreateTechnology(context.Background(), tech))
		assert.NotZero(t, tech.ID)
	})

	t.Run("duplicate name returns ECONFLICT, case-insensitively", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewTechnologyService(mustOpenDB(t))
		ctx := context.Background()

		require.NoError(t, s.CreateTechnology(ctx, &jobharvest.Technology{Name: "Go"}))
		err := s.CreateTechnology(ctx, &jobharvest.Technology{Name: "go"})
		require.Error(t, err)
		assert.Equal(t, jobharvest.ECONFLICT, jobharvest.ErrorCode(err))
	})

	t.Run("supports parent hierarchies", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewTechnologyService(mustOpenDB(t))
		ctx := context.Background()

		parent := &jobharvest.Technology{Name: "Databases"}
		require.NoError(t, s.CreateTechnology(ctx, parent))

		child := &jobharvest.Technology{Name: "PostgreSQL", ParentID: &parent.ID}
		require.NoError(t, s.CreateTechnology(ctx, child))

		found, err := s.FindTechnologyByName(ctx, "PostgreSQL")
		require.NoError(t, err)
		require.NotNil(t, found.ParentID)
		assert.Equal(t, parent.ID, *found.ParentID)
	})
}

func TestTechnologyService_FindTechnologyByName(t *testing.T) {
	t.Parallel()

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewTechnologyService(mustOpenDB(t))
		ctx := context.Background()

		require.NoError(t, s.CreateTechnology(ctx, &jobharvest.Technology{Name: "PostgreSQL"}))

		found, err := s.FindTechnologyByName(ctx, "postgresql")
		require.NoError(t, err)
		assert.Equal(t, "PostgreSQL", found.Name)
	})

	t.Run("unknown name returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewTechnologyService(mustOpenDB(t))
		_, err := s.FindTechnologyByName(context.Background(), "COBOL-2077")
		require.Error(t, err)
		assert.Equal(t, jobharvest.ENOTFOUND, jobharvest.ErrorCode(err))
	})
}

func TestTechnologyService_Aliases(t *testing.T) {
	t.Parallel()

	t.Run("resolves a technology through its alias", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewTechnologyService(mustOpenDB(t))
		ctx := context.Background()

		tech := &jobharvest.Technology{Name: "Go"}
		require.NoError(t, s.CreateTechnology(ctx, tech))
		require.NoError(t, s.CreateTechnologyAlias(ctx, &jobharvest.TechnologyAlias{
			TechnologyID: tech.ID,
			Alias:        "golang",
		}))

		found, err := s.FindTechnologyByAlias(ctx, "GoLang")
		require.NoError(t, err)
		assert.Equal(t, "Go", found.Name)
	})

	t.Run("duplicate alias returns ECONFLICT", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewTechnologyService(mustOpenDB(t))
		ctx := context.Background()

		tech := &jobharvest.Technology{Name: "Go"}
		require.NoError(t, s.CreateTechnology(ctx, tech))

		alias := &jobharvest.TechnologyAlias{TechnologyID: tech.ID, Alias: "golang"}
		require.NoError(t, s.CreateTechnologyAlias(ctx, alias))

		err := s.CreateTechnologyAlias(ctx, &jobharvest.TechnologyAlias{TechnologyID: tech.ID, Alias: "golang"})
		require.Error(t, err)
		assert.Equal(t, jobharvest.ECONFLICT, jobharvest.ErrorCode(err))
	})

	t.Run("unknown alias returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewTechnologyService(mustOpenDB(t))
		_, err := s.FindTechnologyByAlias(context.Background(), "gopher-lang")
		require.Error(t, err)
		assert.Equal(t, jobharvest.ENOTFOUND, jobharvest.ErrorCode(err))
	})
}

func TestTechnologyService_RecordUnmatchedTechnology(t *testing.T) {
	t.Parallel()

	t.Run("repeat recordings increment the seen count", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		s := sqlite.NewTechnologyService(db)
		ctx := context.Background()

		require.NoError(t, s.RecordUnmatchedTechnology(ctx, "COBOL-2077", "acme"))
		require.NoError(t, s.RecordUnmatchedTechnology(ctx, "COBOL-2077", "acme"))
		require.NoError(t, s.RecordUnmatchedTechnology(ctx, "COBOL-2077", "globex"))

		var count int
		err := db.QueryRowContext(ctx, `
			SELECT seen_count FROM unmatched_technologies
			WHERE label = ? AND company_name = ?
		`, "COBOL-2077", "acme").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		var rows int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM unmatched_technologies").Scan(&rows)
		require.NoError(t, err)
		assert.Equal(t, 2, rows)
	})
}
