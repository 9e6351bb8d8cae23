package main

import (
	"os"

	"github.com/okian/syncsix/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("syncsix: " + err.Error() + "\n")
		os.Exit(1)
	}
}
