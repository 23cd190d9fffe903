package main

import (
	"os"

	"github.com/ppiankov/audiencepan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
