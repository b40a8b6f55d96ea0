package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/symcalc/internal/config"
	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/memory"
	"github.com/agbru/symcalc/internal/metrics"
	"github.com/agbru/symcalc/internal/tuning"
	"github.com/agbru/symcalc/internal/ui"
)

func testSessionConfig() SessionConfig {
	cfg := tuning.Default()
	cfg.Workers = 2
	return SessionConfig{
		Width:         "native",
		Tuning:        cfg,
		Precision:     113,
		GCMode:        "disabled",
		HideDurations: true,
	}
}

func appConfigForTest() config.AppConfig {
	return config.AppConfig{
		Width:     "native",
		Timeout:   config.DefaultTimeout,
		Precision: config.DefaultPrecision,
		GCMode:    "auto",
	}
}

func newTestSession(t *testing.T, cfg SessionConfig) (*Session, *bytes.Buffer) {
	t.Helper()
	s, err := NewSession(cfg, metrics.NewMetrics())
	require.NoError(t, err)
	var buf bytes.Buffer
	s.SetOutput(&buf)
	return s, &buf
}

// TestSessionTranscripts replays the files under testdata. Directives:
//
//	reset [width=<w>] [quiet] [verbose] [memory-limit=<size>]
//	run
//	<command>
//	...
func TestSessionTranscripts(t *testing.T) {
	ui.InitTheme(true)
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		var s *Session
		var buf *bytes.Buffer
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "reset":
				cfg := testSessionConfig()
				if d.HasArg("width") {
					d.ScanArgs(t, "width", &cfg.Width)
				}
				cfg.Quiet = d.HasArg("quiet")
				cfg.Verbose = d.HasArg("verbose")
				if d.HasArg("memory-limit") {
					var limit string
					d.ScanArgs(t, "memory-limit", &limit)
					n, err := memory.ParseMemoryLimit(limit)
					require.NoError(t, err)
					cfg.MemoryLimit = n
				}
				s, buf = newTestSession(t, cfg)
				return ""
			case "run":
				require.NotNil(t, s, "run before reset")
				buf.Reset()
				for _, line := range strings.Split(d.Input, "\n") {
					code, exit := s.Execute(context.Background(), strings.Fields(line))
					if code != apperrors.ExitSuccess {
						fmt.Fprintf(buf, "[exit %d]\n", code)
					}
					if exit {
						fmt.Fprintln(buf, "[session ended]")
					}
				}
				return buf.String()
			default:
				d.Fatalf(t, "unknown directive %q", d.Cmd)
				return ""
			}
		})
	})
}

func TestCompareAcrossWidths(t *testing.T) {
	ui.InitTheme(true)
	s, buf := newTestSession(t, testSessionConfig())

	code, exit := s.Execute(context.Background(), []string{"compare", "mul", "65536", "65536"})
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.False(t, exit)

	out := buf.String()
	assert.Contains(t, out, "Comparing mul 65536 65536 across 6 evaluators")
	assert.Contains(t, out, "Global Status: Success. All 6 results are consistent.")
	for _, name := range []string{"native", "w8", "w16", "w32", "w64", "big"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "4294967296 [static]")
	assert.Contains(t, out, "4294967296 [dynamic]")
}

func TestCompareConsistentFailure(t *testing.T) {
	ui.InitTheme(true)
	s, buf := newTestSession(t, testSessionConfig())

	code, _ := s.Execute(context.Background(), []string{"compare", "div", "1", "0"})
	assert.Equal(t, apperrors.ExitErrorGeneric, code)
	assert.Contains(t, buf.String(), "Consistent failure across all widths")
	assert.Contains(t, buf.String(), "division by zero")
}

func TestExecuteRecordsMetrics(t *testing.T) {
	ui.InitTheme(true)
	s, buf := newTestSession(t, testSessionConfig())

	s.Execute(context.Background(), []string{"add", "1", "2"})
	s.Execute(context.Background(), []string{"div", "1", "0"})
	s.Execute(context.Background(), []string{"bogus"})
	s.Execute(context.Background(), []string{"expand", "2", "3"})
	buf.Reset()

	code, _ := s.Execute(context.Background(), []string{"metrics"})
	require.Equal(t, apperrors.ExitSuccess, code)
	out := buf.String()
	assert.Contains(t, out, `symcalc_commands_total{command="add"} 1`)
	assert.Contains(t, out, `symcalc_command_errors_total{command="div",kind="zero_division"} 1`)
	assert.Contains(t, out, `symcalc_commands_total{command="unknown"} 1`)
	assert.Contains(t, out, "symcalc_series_terms 10")
}

func TestExecuteTimeout(t *testing.T) {
	ui.InitTheme(true)
	s, buf := newTestSession(t, testSessionConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code, _ := s.Execute(ctx, []string{"expand", "6", "40"})
	assert.Equal(t, apperrors.ExitErrorCanceled, code)
	assert.Contains(t, buf.String(), "Command canceled")
}

func TestRationalPowRejectsHugeResults(t *testing.T) {
	ui.InitTheme(true)
	cfg := testSessionConfig()
	cfg.Timeout = 200 * time.Millisecond
	s, buf := newTestSession(t, cfg)

	for _, args := range [][]string{
		{"rat", "pow", "3/2", "4000000000000"},
		{"rat", "pow", "3/2", "-4000000000000"},
		{"pow", "3", "4000000000000"},
	} {
		buf.Reset()
		done := make(chan int, 1)
		go func() {
			code, _ := s.Execute(context.Background(), args)
			done <- code
		}()
		select {
		case code := <-done:
			assert.Equal(t, apperrors.ExitErrorGeneric, code, args)
			assert.Contains(t, buf.String(), "overflow", args)
		case <-time.After(5 * time.Second):
			t.Fatalf("%v still running 5s later with a 200ms timeout", args)
		}
	}
}

func TestStatusAndStatsPanels(t *testing.T) {
	ui.InitTheme(true)
	s, buf := newTestSession(t, testSessionConfig())

	code, _ := s.Execute(context.Background(), []string{"status"})
	require.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, buf.String(), "Configuration")
	assert.Contains(t, buf.String(), "CPU features")
	assert.Contains(t, buf.String(), "113 bits")

	buf.Reset()
	s.Execute(context.Background(), []string{"stats"})
	assert.NotContains(t, buf.String(), "Last terms")

	s.Execute(context.Background(), []string{"expand", "3", "4"})
	buf.Reset()
	s.Execute(context.Background(), []string{"stats"})
	assert.Contains(t, buf.String(), "Last terms")
	assert.Contains(t, buf.String(), "35")
}

func TestNewSessionConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		block   uint
		limit   string
		wantErr bool
	}{
		{"defaults", 256, "", false},
		{"limit", 256, "2G", false},
		{"bad block size", 3, "", true},
		{"bad limit", 256, "lots", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			app := appConfigForTest()
			app.BlockSize = tt.block
			app.MemoryLimit = tt.limit
			cfg, err := NewSessionConfig(app)
			if tt.wantErr {
				var cfgErr apperrors.ConfigError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.block, cfg.Tuning.MultiplicationBlockSize)
			if tt.limit != "" {
				assert.Equal(t, uint64(2<<30), cfg.MemoryLimit)
			}
		})
	}
}

func TestNewSessionRejectsUnknownWidth(t *testing.T) {
	t.Parallel()
	cfg := testSessionConfig()
	cfg.Width = "w128"
	_, err := NewSession(cfg, nil)
	var cfgErr apperrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
