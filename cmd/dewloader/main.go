package main

import (
	"fmt"
	"os"

	"github.com/collin12121212/DewLoader/internal/cli"
	"github.com/collin12121212/DewLoader/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
