package metrics

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/agbru/symcalc/internal/errors"
)

func TestWritePrometheus(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.ObserveCommand("mul", 3*time.Millisecond, nil)
	m.ObserveCommand("div", time.Microsecond, apperrors.ZeroDivisionf("1 / 0"))
	m.ObserveSeries(286, 331, 0.86)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	body := buf.String()
	for _, want := range []string{
		`symcalc_commands_total{command="mul"} 1`,
		`symcalc_command_errors_total{command="div",kind="zero_division"} 1`,
		"symcalc_command_duration_seconds_bucket",
		"symcalc_series_terms 286",
		"symcalc_hashset_buckets 331",
		"symcalc_hashset_load_factor 0.86",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestIndependentRegistries(t *testing.T) {
	t.Parallel()
	a, b := NewMetrics(), NewMetrics()
	a.ObserveCommand("add", time.Millisecond, nil)

	var buf bytes.Buffer
	if err := b.WritePrometheus(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), `command="add"`) {
		t.Error("metrics leaked across instances")
	}
}

func TestKindLabel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want string
	}{
		{apperrors.Overflowf("x"), "overflow"},
		{apperrors.ZeroDivisionf("x"), "zero_division"},
		{apperrors.Domainf("x"), "domain"},
		{apperrors.Allocationf("x"), "allocation"},
		{context.DeadlineExceeded, "context"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := KindLabel(tt.err); got != tt.want {
			t.Errorf("KindLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestStartSpanWithoutProvider(t *testing.T) {
	t.Parallel()
	ctx, span := StartSpan(context.Background(), "pow", attribute.String("width", "w64"))
	if ctx == nil || span == nil {
		t.Fatal("StartSpan returned nil")
	}
	EndSpan(span, apperrors.Overflowf("too big"))
}
