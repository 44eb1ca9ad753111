package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_CachesPerComponent(t *testing.T) {
	a := NewLogger("test-component")
	b := NewLogger("test-component")

	require.NotNil(t, a)
	assert.Same(t, a, b)
	assert.Equal(t, "test-component", a.Data["component"])
}

func TestSetOutput_RedirectsExistingLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("redirect")
	SetOutput(&buf)
	defer SetOutput(nil)

	logger.WithField("handle", "0x10").Warn("window vanished")

	out := buf.String()
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "[redirect]")
	assert.Contains(t, out, "window vanished")
	assert.Contains(t, out, "handle=0x10")
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		fmt     TextFormatter
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name: "default",
			fmt:  TextFormatter{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "pinned",
				Data:    logrus.Fields{"component": "engine", "process": "app.exe"},
			},
			want: []string{"[INFO]", "[engine]", "pinned", "process=app.exe"},
		},
		{
			name: "no component",
			fmt:  TextFormatter{DisableComponent: true, DisableTimestamp: true},
			entry: &logrus.Entry{
				Level:   logrus.ErrorLevel,
				Message: "boom",
				Data:    logrus.Fields{"component": "engine"},
			},
			want:    []string{"[ERROR] boom"},
			notWant: []string{"[engine]", "component="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.fmt.Format(tt.entry)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, string(out), w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, string(out), nw)
			}
			assert.True(t, strings.HasSuffix(string(out), "\n"))
		})
	}
}

func TestConfigure_FileSink(t *testing.T) {
	dir := t.TempDir()
	Configure(Config{Level: "debug", File: true, Dir: dir, Stderr: "never"})
	defer Configure(Config{})

	NewLogger("file-sink").Debug("written to disk")

	matches, err := filepath.Glob(filepath.Join(dir, "pinit-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to disk")
}
