package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/resilio/pkg/utils/logging"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input   string
		want    logging.Format
		wantErr bool
	}{
		{input: "", want: logging.FormatAuto},
		{input: "auto", want: logging.FormatAuto},
		{input: "console", want: logging.FormatConsole},
		{input: "JSON", want: logging.FormatJSON},
		{input: "xml", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := logging.ParseFormat(tc.input)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tc.want)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	gt.Equal(t, logging.ParseLogLevel("DEBUG"), slog.LevelDebug)
	gt.Equal(t, logging.ParseLogLevel("warning"), slog.LevelWarn)
	gt.Equal(t, logging.ParseLogLevel("error"), slog.LevelError)
	gt.Equal(t, logging.ParseLogLevel("unknown"), slog.LevelInfo)
}

func TestNewLogger_NonTerminalWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(slog.LevelInfo, &buf)
	logger.Info("hello", "workflowID", "wf-1")
	logger.Debug("filtered")

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record)).Required()
	gt.Equal(t, record["msg"], any("hello"))
	gt.Equal(t, record["workflowID"], any("wf-1"))
	gt.False(t, logging.IsTerminal(&buf))
}
