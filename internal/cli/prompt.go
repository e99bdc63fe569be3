package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// prompter asks for the paths that were not given on the command line.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
	ask bool
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	return &prompter{
		in:  bufio.NewScanner(r),
		out: w,
		ask: interactive(r),
	}
}

// interactive returns false when r is a file that is not a terminal,
// such as a pipe or /dev/null, so a script never blocks on a question.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// path returns the answer to the question, or def when the answer is empty
// or the input is not interactive.
func (p *prompter) path(question, def string) string {
	if !p.ask {
		return def
	}
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		p.ask = false
		return def
	}
	answer := strings.Trim(strings.TrimSpace(p.in.Text()), `"'`)
	if answer == "" {
		return def
	}
	return answer
}
