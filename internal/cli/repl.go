// Package cli provides the command session, the REPL (Read-Eval-Print Loop)
// and the terminal presentation of symcalc.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agbru/symcalc/internal/ui"
)

// Prompt is printed before each REPL input line.
const Prompt = "symcalc> "

// REPL represents an interactive symcalc session.
type REPL struct {
	session *Session
	banner  bool
	in      io.Reader
	out     io.Writer
}

// NewREPL creates a new REPL reading from os.Stdin and writing to os.Stdout.
//
// Parameters:
//   - session: The session commands are executed in.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(session *Session) *REPL {
	return &REPL{
		session: session,
		banner:  true,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer for the REPL and its session.
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
	r.session.SetOutput(out)
}

// SetBanner enables or disables the welcome banner.
func (r *REPL) SetBanner(show bool) {
	r.banner = show
}

// Start runs the REPL until exit, EOF or ctx cancellation.
func (r *REPL) Start(ctx context.Context) {
	if r.banner {
		r.printBanner()
		r.session.printHelp()
		fmt.Fprintln(r.out)
	}

	reader := bufio.NewReader(r.in)
	for ctx.Err() == nil {
		fmt.Fprint(r.out, ui.ColorGreen()+Prompt+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		if fields := strings.Fields(input); len(fields) > 0 {
			if _, exit := r.session.Execute(ctx, fields); exit {
				fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
				return
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %ssymcalc - hybrid integers and sparse series%s        %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}
