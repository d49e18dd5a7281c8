package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/tastematch/internal/config"
	"github.com/kingrea/tastematch/internal/quiz"
	"github.com/kingrea/tastematch/internal/report"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func decodeResolve(t *testing.T, raw string) resolveOutput {
	t.Helper()
	var out resolveOutput
	require.NoError(t, yaml.Unmarshal([]byte(raw), &out))
	return out
}

func TestResolvePrintsVerdict(t *testing.T) {
	t.Setenv("TASTEMATCH_REPORT_ENDPOINT", "")
	dir := t.TempDir()

	raw := execute(t, "resolve", "--dir", dir,
		"--answer", "A table at a tasting menu",
		"--answer", "Smooth jazz over dinner",
		"--answer", "A creamy cocktail",
		"--answer", "-",
	)
	out := decodeResolve(t, raw)

	assert.Equal(t, quiz.CategoryB, out.Verdict)
	assert.Equal(t, 2, out.Tally[quiz.CategoryB])
	assert.Equal(t, 1, out.Tally[quiz.CategoryA])
	assert.Equal(t, quiz.Stats{Questions: 4, Skipped: 1, Matched: 3}, out.Stats)
	assert.Equal(t, "The Indulgent Diner", out.Recommendation.Title)
	assert.Nil(t, out.Report)
}

func TestResolveWithoutAnswersFallsBackToFirstEligible(t *testing.T) {
	t.Setenv("TASTEMATCH_REPORT_ENDPOINT", "")
	out := decodeResolve(t, execute(t, "resolve", "--dir", t.TempDir()))

	assert.Equal(t, quiz.CategoryA, out.Verdict)
	assert.Equal(t, 0, out.Stats.Matched)
}

func TestResolveNeverPicksExcludedCategory(t *testing.T) {
	t.Setenv("TASTEMATCH_REPORT_ENDPOINT", "")
	out := decodeResolve(t, execute(t, "resolve", "--dir", t.TempDir(),
		"--answer", "Staying in",
		"--answer", "Silence, honestly",
		"--answer", "An iced coffee milkshake",
	))

	assert.Equal(t, 2, out.Tally[quiz.CategoryD])
	assert.Equal(t, quiz.CategoryC, out.Verdict)
}

func TestResolveUsesCustomBank(t *testing.T) {
	t.Setenv("TASTEMATCH_REPORT_ENDPOINT", "")
	dir := t.TempDir()
	bank := filepath.Join(dir, "bank.yaml")
	require.NoError(t, os.WriteFile(bank, []byte(`title: Tiny
questions:
  - prompt: One?
    options: [w, x, y, z]
`), 0o644))

	out := decodeResolve(t, execute(t, "resolve", "--dir", dir, "--bank", bank, "--answer", "y"))
	assert.Equal(t, quiz.CategoryC, out.Verdict)
	assert.Equal(t, 1, out.Stats.Questions)
}

func TestResolveReportsToEndpoint(t *testing.T) {
	var got report.Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, report.ScorePath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("TASTEMATCH_REPORT_ENDPOINT", srv.URL)

	out := decodeResolve(t, execute(t, "resolve", "--dir", t.TempDir(), "--report",
		"--answer", "Somewhere with a live DJ"))

	require.NotNil(t, out.Report)
	assert.Equal(t, http.StatusAccepted, out.Report.Status)
	assert.Empty(t, out.Report.Error)
	assert.Equal(t, quiz.CategoryA, got.Score)
	assert.NotEmpty(t, got.PlayerID)
}

func TestResolveReportRequiresEndpoint(t *testing.T) {
	t.Setenv("TASTEMATCH_REPORT_ENDPOINT", "")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"resolve", "--dir", t.TempDir(), "--report"})

	err := root.Execute()
	require.ErrorIs(t, err, report.ErrNoEndpoint)
}

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()
	execute(t, "init", "--dir", dir)

	_, err := os.Stat(filepath.Join(dir, config.Dir, "config.yaml"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, config.Dir, "logs"))
	require.NoError(t, err)
}

func TestParseAnswers(t *testing.T) {
	answers := parseAnswers([]string{"x", "-", ""})
	require.Len(t, answers, 3)
	assert.Equal(t, quiz.Pick("x"), answers[0])
	assert.True(t, answers[1].Skipped)
	assert.Equal(t, quiz.Pick(""), answers[2])
}
