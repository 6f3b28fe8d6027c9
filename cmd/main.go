package main

import (
	"context"
	"fmt"
	"os"

	"roster/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "roster:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
