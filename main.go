package main

import (
	"log"
	"os"

	"github.com/clst/UNREADABLESECTOR-merger/pkg/cli"
)

func main() {
	if err := cli.Run(os.Args); err != nil {
		log.Printf("secmerge: %v", err)
		os.Exit(cli.ExitCode(err))
	}
}
