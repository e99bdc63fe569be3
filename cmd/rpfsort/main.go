// Rpfsort extracts an RPF package with an external tool and sorts the
// extracted files into the stream and data folders of a FiveM resource.
//
//	rpfsort --tool rpf-cli --archive dlc.rpf --output resources/mycar
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Defacto2/rpfsort/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx, os.Args)
	stop()
	if err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
