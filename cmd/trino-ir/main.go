package main

import (
	"fmt"
	"os"

	"github.com/debuger6/trino/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "trino-ir:", err)
		os.Exit(1)
	}
}
