package main

import (
	"context"
	"fmt"
	"os"

	"emissionsdash/internal/cli"
	"emissionsdash/internal/config"
)

func main() {
	cmd := cli.NewRootCmd(config.GetVersion())
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
