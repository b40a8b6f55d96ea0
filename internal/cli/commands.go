package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/format"
	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/memory"
	"github.com/agbru/symcalc/internal/metrics"
	"github.com/agbru/symcalc/internal/orchestration"
	"github.com/agbru/symcalc/internal/rational"
	"github.com/agbru/symcalc/internal/real"
	"github.com/agbru/symcalc/internal/series"
	"github.com/agbru/symcalc/internal/sysmon"
	"github.com/agbru/symcalc/internal/ui"
)

// maxExpandSymbols bounds the symbol count of expand.
const maxExpandSymbols = 16

// printLimit is the largest expansion printed term by term without -v.
const printLimit = 32

type command struct {
	name    string
	aliases []string
	usage   string
	help    string
}

var commandTable = []command{
	{name: "add", usage: "add <a> <b>", help: "a + b at the current width"},
	{name: "sub", usage: "sub <a> <b>", help: "a - b"},
	{name: "mul", usage: "mul <a> <b>", help: "a * b"},
	{name: "div", usage: "div <a> <b>", help: "quotient truncated toward zero"},
	{name: "mod", usage: "mod <a> <b>", help: "remainder with the sign of a"},
	{name: "pow", usage: "pow <a> <e>", help: "a raised to e"},
	{name: "gcd", usage: "gcd <a> <b>", help: "greatest common divisor"},
	{name: "abs", usage: "abs <a>", help: "absolute value"},
	{name: "neg", usage: "neg <a>", help: "negation"},
	{name: "addmul", usage: "addmul <acc> <a> <b>", help: "acc + a*b"},
	{name: "info", usage: "info <a>", help: "storage of a at every width"},
	{name: "rat", usage: "rat <op> <a/b> [c/d|e]", help: "rational add sub mul div pow inv neg abs"},
	{name: "real", usage: "real <op> <x> [y]", help: "decimal add sub mul div trunc at -precision"},
	{name: "expand", usage: "expand <k> <n>", help: "(1 + x1 + ... + xk)**n"},
	{name: "compare", aliases: []string{"cmp"}, usage: "compare <op> <args...>", help: "run an integer command at every width"},
	{name: "width", usage: "width [name]", help: "show or change the width"},
	{name: "status", aliases: []string{"st"}, usage: "status", help: "current configuration"},
	{name: "stats", usage: "stats", help: "system, runtime and last expansion statistics"},
	{name: "metrics", usage: "metrics", help: "prometheus exposition of the session"},
	{name: "help", aliases: []string{"h", "?"}, usage: "help", help: "this help"},
	{name: "exit", aliases: []string{"quit"}, usage: "exit", help: "leave the session"},
}

// CommandNames lists the primary command names.
func CommandNames() []string {
	names := make([]string, len(commandTable))
	for i, c := range commandTable {
		names[i] = c.name
	}
	return names
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commandTable {
		if c.name == name || slices.Contains(c.aliases, name) {
			return c, true
		}
	}
	return command{}, false
}

func usageError(name string) error {
	c, _ := lookupCommand(name)
	return apperrors.ValidationError{Field: name, Message: "usage: " + c.usage}
}

func (s *Session) printHelp() {
	fmt.Fprintf(s.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, c := range commandTable {
		fmt.Fprintf(s.out, "  %s%-24s%s %s\n", ui.ColorYellow(), c.usage, ui.ColorReset(), c.help)
	}
}

func (s *Session) cmdInteger(ctx context.Context, name string, args []string) error {
	req := orchestration.Request{Op: name, Args: args}
	if err := req.Validate(); err != nil {
		return err
	}
	start := time.Now()
	o, err := s.evaluator.Evaluate(ctx, req)
	if err != nil {
		return err
	}
	storage := "dynamic"
	if o.Static {
		storage = "static"
	}
	DisplayResult(s.out, Result{
		Label: req.String(),
		Value: o.Value,
		Details: []Detail{
			{"width", s.evaluator.Name()},
			{"storage", storage},
			{"bits", strconv.Itoa(o.BitLen)},
		},
		Duration: time.Since(start),
	}, s.output())
	return nil
}

func staticIn[W integer.Width](s string) (bool, error) {
	x, err := integer.Parse[W](s)
	return x.IsStatic(), err
}

func (s *Session) cmdInfo(args []string) error {
	if len(args) != 1 {
		return usageError("info")
	}
	x, err := integer.Parse[integer.Native](args[0])
	if err != nil {
		return err
	}
	checks := []struct {
		name   string
		static func(string) (bool, error)
	}{
		{"native", staticIn[integer.Native]},
		{"w8", staticIn[integer.W8]},
		{"w16", staticIn[integer.W16]},
		{"w32", staticIn[integer.W32]},
		{"w64", staticIn[integer.W64]},
	}
	details := []Detail{
		{"bits", strconv.Itoa(x.BitLen())},
		{"digits", strconv.Itoa(len(strings.TrimPrefix(x.String(), "-")))},
	}
	for _, c := range checks {
		static, err := c.static(args[0])
		if err != nil {
			return err
		}
		storage := "dynamic"
		if static {
			storage = "static"
		}
		details = append(details, Detail{c.name, storage})
	}
	DisplayResult(s.out, Result{Label: "info " + args[0], Value: x.String(), Details: details}, OutputConfig{
		Quiet: s.cfg.Quiet, Verbose: s.cfg.Verbose, HideDurations: true,
	})
	return nil
}

func (s *Session) cmdRat(args []string) error {
	if len(args) < 2 {
		return usageError("rat")
	}
	op := args[0]
	a, err := rational.Parse(args[1])
	if err != nil {
		return err
	}
	var r rational.Rat
	switch op {
	case "neg", "abs", "inv":
		if len(args) != 2 {
			return usageError("rat")
		}
		switch op {
		case "neg":
			r = a.Neg()
		case "abs":
			r = a.Abs()
		default:
			if r, err = a.Inv(); err != nil {
				return err
			}
		}
	case "pow":
		if len(args) != 3 {
			return usageError("rat")
		}
		e, perr := strconv.ParseInt(args[2], 10, 64)
		if perr != nil {
			return apperrors.Domainf("invalid exponent %q", args[2])
		}
		if r, err = a.Pow(e); err != nil {
			return err
		}
	case "add", "sub", "mul", "div":
		if len(args) != 3 {
			return usageError("rat")
		}
		b, err := rational.Parse(args[2])
		if err != nil {
			return err
		}
		switch op {
		case "add":
			r = a.Add(b)
		case "sub":
			r = a.Sub(b)
		case "mul":
			r = a.Mul(b)
		default:
			if r, err = a.Quo(b); err != nil {
				return err
			}
		}
	default:
		return apperrors.Domainf("unknown rational operation %q", op)
	}
	DisplayResult(s.out, Result{Label: "rat " + strings.Join(args, " "), Value: r.String()}, OutputConfig{
		Quiet: s.cfg.Quiet, Verbose: s.cfg.Verbose, HideDurations: true,
	})
	return nil
}

// parseReal accepts decimals and a/b fractions.
func parseReal(s string, prec uint32) (real.Real, error) {
	if strings.Contains(s, "/") {
		q, err := rational.Parse(s)
		if err != nil {
			return real.Real{}, err
		}
		return real.FromRat(q, prec)
	}
	return real.Parse(s, prec)
}

func (s *Session) cmdReal(args []string) error {
	if len(args) < 2 {
		return usageError("real")
	}
	prec := real.DigitsForBits(s.cfg.Precision)
	x, err := parseReal(args[1], prec)
	if err != nil {
		return err
	}
	var value string
	switch op := args[0]; op {
	case "trunc":
		if len(args) != 2 {
			return usageError("real")
		}
		n, err := x.Integer()
		if err != nil {
			return err
		}
		value = n.String()
	case "add", "sub", "mul", "div":
		if len(args) != 3 {
			return usageError("real")
		}
		y, err := parseReal(args[2], prec)
		if err != nil {
			return err
		}
		var r real.Real
		switch op {
		case "add":
			r, err = x.Add(y)
		case "sub":
			r, err = x.Sub(y)
		case "mul":
			r, err = x.Mul(y)
		default:
			r, err = x.Quo(y)
		}
		if err != nil {
			return err
		}
		value = r.Text()
	default:
		return apperrors.Domainf("unknown real operation %q", op)
	}
	DisplayResult(s.out, Result{
		Label:   "real " + strings.Join(args, " "),
		Value:   value,
		Details: []Detail{{"precision", fmt.Sprintf("%d bits (%d digits)", s.cfg.Precision, prec)}},
	}, OutputConfig{Quiet: s.cfg.Quiet, Verbose: true, HideDurations: true})
	return nil
}

// expansionBase returns 1 + x1 + ... + xk.
func expansionBase(k int) (*series.Polynomial, error) {
	p := series.NewConstant(integer.New[integer.Native](1))
	for i := 1; i <= k; i++ {
		var err error
		if p, err = p.Add(series.NewSymbol(fmt.Sprintf("x%d", i))); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *Session) cmdExpand(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("expand")
	}
	k, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || k == 0 || k > maxExpandSymbols {
		return apperrors.Domainf("symbol count %q must be in [1, %d]", args[0], maxExpandSymbols)
	}
	n, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return apperrors.Domainf("invalid power %q", args[1])
	}

	est := memory.EstimateExpansion(k, n)
	if s.cfg.MemoryLimit > 0 && est.TotalBytes > s.cfg.MemoryLimit {
		return apperrors.Allocationf("expansion needs about %s, above the %s limit",
			memory.FormatMemoryEstimate(est), format.FormatBytes(s.cfg.MemoryLimit))
	}

	base, err := expansionBase(int(k))
	if err != nil {
		return err
	}

	collector := metrics.NewMemoryCollector()
	gc := memory.NewGCController(s.cfg.GCMode, est.Terms)
	gc.SetLogger(logger)
	before := collector.Snapshot()
	gc.Begin()
	start := time.Now()
	ctx, span := metrics.StartSpan(ctx, "series.Pow")
	p, err := series.Pow(ctx, base, n, s.cfg.Tuning)
	metrics.EndSpan(span, err)
	duration := time.Since(start)
	gc.End()
	after := collector.Snapshot()
	if err != nil {
		return err
	}

	st := p.Stats()
	s.lastStats = &st
	s.metrics.ObserveSeries(st.Len, st.Buckets, st.LoadFactor)

	if !s.cfg.Quiet && (s.cfg.Verbose || p.Len() <= printLimit) {
		fmt.Fprintf(s.out, "%s\n", p.String())
	}
	DisplayResult(s.out, Result{
		Label: fmt.Sprintf("expand %d %d", k, n),
		Value: strconv.Itoa(st.Len),
		Details: []Detail{
			{"terms", strconv.Itoa(st.Len)},
			{"buckets", strconv.Itoa(st.Buckets)},
			{"load factor", fmt.Sprintf("%.3f", st.LoadFactor)},
			{"max chain", strconv.Itoa(st.MaxChain)},
			{"estimate", memory.FormatMemoryEstimate(est)},
		},
		Duration: duration,
	}, OutputConfig{Quiet: s.cfg.Quiet, Verbose: true, HideDurations: s.cfg.HideDurations})
	if s.cfg.Verbose && !s.cfg.Quiet {
		d := after.Since(before)
		DisplayMemoryStats(after.HeapAlloc, d.Allocated, d.NumGC, d.PauseTotalNs, s.out)
	}
	return nil
}

func (s *Session) cmdCompare(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("compare")
	}
	req := orchestration.Request{Op: strings.ToLower(args[0]), Args: args[1:]}
	if err := req.Validate(); err != nil {
		return err
	}
	if !s.cfg.Quiet {
		fmt.Fprintf(s.out, "%sComparing %s across %d evaluators%s\n",
			ui.ColorBold(), req, len(orchestration.Evaluators()), ui.ColorReset())
	}
	results := orchestration.ExecuteComparisons(ctx, orchestration.Evaluators(), req, s.progress, s.out)
	if code := orchestration.AnalyzeComparisonResults(results, s.presenter, s.out); code != apperrors.ExitSuccess {
		return exitError{code}
	}
	return nil
}

func (s *Session) cmdWidth(args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintf(s.out, "width: %s%s%s (available: %s)\n",
			ui.ColorGreen(), s.evaluator.Name(), ui.ColorReset(), strings.Join(orchestration.Widths(), ", "))
		return nil
	case 1:
		ev, err := orchestration.EvaluatorFor(strings.ToLower(args[0]))
		if err != nil {
			return err
		}
		s.evaluator = ev
		s.cfg.Width = ev.Name()
		fmt.Fprintf(s.out, "width changed to: %s%s%s\n", ui.ColorGreen(), ev.Name(), ui.ColorReset())
		return nil
	}
	return usageError("width")
}

func (s *Session) cmdStatus() {
	limit := "none"
	if s.cfg.MemoryLimit > 0 {
		limit = format.FormatBytes(s.cfg.MemoryLimit)
	}
	features := strings.Join(sysmon.CPUFeatures(), " ")
	if features == "" {
		features = "none detected"
	}
	rows := []ui.Row{
		{Label: "Width", Value: s.evaluator.Name()},
		{Label: "Timeout", Value: s.cfg.Timeout.String()},
		{Label: "Workers", Value: strconv.Itoa(s.cfg.Tuning.EffectiveWorkers())},
		{Label: "Block size", Value: strconv.FormatUint(uint64(s.cfg.Tuning.MultiplicationBlockSize), 10)},
		{Label: "Parallel sweep", Value: strconv.FormatBool(s.cfg.Tuning.ParallelMemorySet)},
		{Label: "Precision", Value: fmt.Sprintf("%d bits", s.cfg.Precision)},
		{Label: "GC mode", Value: s.cfg.GCMode},
		{Label: "Memory limit", Value: limit},
		{Label: "CPU features", Value: features},
	}
	fmt.Fprintln(s.out, ui.RenderPanel("Configuration", rows))
}

func (s *Session) cmdStats() {
	sys := sysmon.Sample()
	mem := metrics.NewMemoryCollector().Snapshot()
	rows := []ui.Row{
		{Label: "System CPU", Value: fmt.Sprintf("%.1f%% of %d CPUs", sys.CPUPercent, sys.LogicalCPUs)},
		{Label: "System memory", Value: fmt.Sprintf("%.1f%% of %s (%s free)", sys.MemPercent,
			format.FormatBytes(sys.MemTotal), format.FormatBytes(sys.MemAvailable))},
		{Label: "Heap in use", Value: format.FormatBytes(mem.HeapAlloc)},
		{Label: "Heap objects", Value: strconv.FormatUint(mem.HeapObjects, 10)},
		{Label: "From OS", Value: format.FormatBytes(mem.Sys)},
		{Label: "GC cycles", Value: strconv.FormatUint(uint64(mem.NumGC), 10)},
	}
	if st := s.lastStats; st != nil {
		rows = append(rows,
			ui.Row{Label: "Last terms", Value: strconv.Itoa(st.Len)},
			ui.Row{Label: "Last buckets", Value: strconv.Itoa(st.Buckets)},
			ui.Row{Label: "Empty buckets", Value: strconv.Itoa(st.EmptyBucket)},
			ui.Row{Label: "Load factor", Value: fmt.Sprintf("%.3f", st.LoadFactor)},
			ui.Row{Label: "Max chain", Value: strconv.Itoa(st.MaxChain)},
		)
	}
	fmt.Fprintln(s.out, ui.RenderPanel("Statistics", rows))
}
