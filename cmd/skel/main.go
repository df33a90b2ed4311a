package main

import (
	"os"

	"github.com/arthur-debert/skel/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
