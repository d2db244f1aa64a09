// Command shelfcontrol indexes a personal EPUB library and serves it back
// over OPDS and a small JSON API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bcorrigan/shelfcontrol/internal/config"
)

func main() {
	defaults := config.Default()

	root := &cobra.Command{
		Use:   "shelfcontrol",
		Short: "Personal EPUB library indexer and OPDS/JSON server",
	}

	root.AddCommand(newIndexCmd(defaults))
	root.AddCommand(newServeCmd(defaults))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}
