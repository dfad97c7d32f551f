package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_WritesFileAndConsole(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	log, closer, err := New(dir, "info", &console)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("component", "metrics").Float64("mean_iou", 0.5).Msg("mean IoU")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "metrics", entry["component"])
	require.Equal(t, "mean IoU", entry["message"])

	require.Contains(t, console.String(), "mean IoU")
	require.NotContains(t, console.String(), "hidden")
}

func TestNew_NoFile(t *testing.T) {
	var console bytes.Buffer
	log, closer, err := New("", "debug", &console)
	require.NoError(t, err)
	log.Debug().Msg("visible")
	require.NoError(t, closer.Close())
	require.Contains(t, console.String(), "visible")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New("", "loud", &bytes.Buffer{})
	require.Error(t, err)
}
