// Generates the dewloader(1) man page for packaging.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/collin12121212/DewLoader/internal/cli"
	"github.com/collin12121212/DewLoader/internal/version"
)

func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DEWLOADER",
		Section: "1",
		Source:  "dewloader " + version.Version,
		Manual:  "dewloader manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
