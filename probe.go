package rpfsort

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/Defacto2/rpfsort/command"
)

// Probe runs the tool without arguments to confirm it can be executed.
//
// Most extraction tools print their usage and exit with an error status when
// given no arguments, while others wait on the console. So both a non-zero exit
// status and running past command.TimeoutProbe are treated as a usable tool.
// Only a tool that cannot be started returns an error.
func Probe(ctx context.Context, tool string) error {
	if err := isFile("tool", tool); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, command.TimeoutProbe)
	defer cancel()
	cmd := exec.CommandContext(ctx, tool)
	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil
	}
	return fmt.Errorf("probe %w: %s: %w", ErrToolMissing, tool, err)
}
