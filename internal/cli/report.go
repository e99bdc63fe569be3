package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Defacto2/rpfsort"
	"github.com/fatih/color"
)

// report prints the summary of an organize pass.
func report(w io.Writer, output string, r rpfsort.Report, verbose bool) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "Organizing complete, %d files moved\n", r.Moved())
	fmt.Fprintf(w, "  %s %d\n", color.GreenString("stream "), r.Stream)
	fmt.Fprintf(w, "  %s %d\n", color.GreenString("data   "), r.Data)
	fmt.Fprintf(w, "  %s %d\n", color.YellowString("skipped"), r.Skipped)
	if r.Failed > 0 {
		fmt.Fprintf(w, "  %s %d\n", color.RedString("failed "), r.Failed)
	}
	if n := len(r.Nested); n > 0 {
		fmt.Fprintf(w, "  %s %d\n", color.CyanString("nested "), n)
	}
	if verbose {
		for _, m := range r.Moves {
			from, _ := filepath.Rel(output, m.From)
			to, _ := filepath.Rel(output, m.To)
			fmt.Fprintf(w, "    %s -> %s\n", from, to)
		}
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "    %s %s\n", color.RedString("!"), f.Error())
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		abs = output
	}
	fmt.Fprintf(w, "Files are in %s\n", bold.Sprint(abs))
}

// failure prints the kind of error that stopped the run.
func failure(w io.Writer, err error) {
	if w == nil || err == nil {
		return
	}
	title := "Error"
	switch {
	case errors.Is(err, rpfsort.ErrPathNotFound):
		title = "Path Not Found"
	case errors.Is(err, rpfsort.ErrExtractionFailed):
		title = "Extraction Failed"
	case errors.Is(err, rpfsort.ErrToolMissing):
		title = "Tool Missing"
	}
	fmt.Fprintf(w, "%s: %v\n", color.New(color.FgRed, color.Bold).Sprint(title), err)
}
