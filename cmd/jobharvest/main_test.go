package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/jobharvest/cmd/jobharvest"
	"github.com/fwojciec/jobharvest/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
companies:
  - name: acme
    career_url: https://careers.example.com/acme
    enabled: true
    selectors:
      job_board:
        strategy: default
        selectors: [".jobs"]
      job_card:
        strategy: default
        selectors: [".job-card"]
technologies:
  - name: Databases
  - name: PostgreSQL
    parent: Databases
    aliases: [postgres, psql]
`

func TestCmdSync(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfgPath := writeConfig(t, testConfig)

	m := main.NewMain()
	m.DBPath = dbPath

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"sync", "--config", cfgPath}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Synced 1 companies")
	assert.Contains(t, stdout.String(), "Synced 2 technology seeds")

	// Verify through a fresh handle that sync actually persisted.
	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()

	companies, err := sqlite.NewCompanyService(db).FindCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "acme", companies[0].Name)

	tech, err := sqlite.NewTechnologyService(db).FindTechnologyByAlias(context.Background(), "postgres")
	require.NoError(t, err)
	assert.Equal(t, "PostgreSQL", tech.Name)
}

func TestCmdSync_IsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfgPath := writeConfig(t, testConfig)

	for i := 0; i < 2; i++ {
		m := main.NewMain()
		m.DBPath = dbPath

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		require.NoError(t, m.Run(context.Background(), []string{"sync", "--config", cfgPath}, stdout, stderr))
	}

	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()

	companies, err := sqlite.NewCompanyService(db).FindCompanies(context.Background())
	require.NoError(t, err)
	assert.Len(t, companies, 1)
}

func TestCmdSkills_NoCompanies(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfgPath := writeConfig(t, testConfig)

	m := main.NewMain()
	m.DBPath = dbPath

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// Without a prior sync there is nothing to process.
	err := m.Run(context.Background(), []string{"skills", "--config", cfgPath}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No companies found")
}

func TestCmdSkills_AfterSync(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfgPath := writeConfig(t, testConfig)

	m := main.NewMain()
	m.DBPath = dbPath
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	require.NoError(t, m.Run(context.Background(), []string{"sync", "--config", cfgPath}, stdout, stderr))

	m2 := main.NewMain()
	m2.DBPath = dbPath
	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	require.NoError(t, m2.Run(context.Background(), []string{"skills", "--config", cfgPath}, stdout, stderr))

	// One company processed, no jobs staged yet.
	assert.Contains(t, stdout.String(), "skills: 1 processed, 1 succeeded, 0 failed, 0 jobs")
}

func TestCmdUnknown(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"bogus"}, stdout, stderr)
	assert.Error(t, err)
}
