package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kingrea/tastematch/internal/config"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	t.Setenv("TASTEMATCH_QUIZ_BANK", "")
	dir := t.TempDir()
	cfg, err := config.NewConfig(dir)
	require.NoError(t, err)
	log, err := New(cfg, false)
	require.NoError(t, err)

	log.Printf("session %s mounted\n", "abc")
	log.Named("summary").Warn("report failed", zap.String("verdict", "B"))
	log.Zap().Debug("hidden at info level")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(filepath.Join(dir, config.Dir, "logs", FileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "session abc mounted", first["msg"])
	require.Equal(t, "info", first["level"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "summary", second["logger"])
	require.Equal(t, "B", second["verdict"])
}

func TestNopAndNilAreSafe(t *testing.T) {
	var nilLogger *Logger
	nilLogger.Printf("ignored")
	require.NoError(t, nilLogger.Close())
	Nop().Printf("ignored")
	require.NoError(t, Nop().Close())
	require.NotNil(t, Wrap(nil).Zap())
}
