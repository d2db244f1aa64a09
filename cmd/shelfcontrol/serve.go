package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bcorrigan/shelfcontrol/internal/aggregate"
	"github.com/bcorrigan/shelfcontrol/internal/config"
	"github.com/bcorrigan/shelfcontrol/internal/server"
	"github.com/bcorrigan/shelfcontrol/internal/searchindex"
)

func newServeCmd(defaults config.Config) *cobra.Command {
	var (
		dbFile   string
		coverDir string
		host     string
		port     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an already-built search index and counts store over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := searchindex.Open(dbFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, "open search index:", err)
				os.Exit(2)
			}
			defer idx.Close()

			counts, err := aggregate.Open(filepath.Join(dbFile, "counts.sqlite"))
			if err != nil {
				fmt.Fprintln(os.Stderr, "open counts store:", err)
				os.Exit(2)
			}
			defer counts.Close()

			srv := server.New(idx, counts, server.Options{CoverDir: coverDir})

			addr := fmt.Sprintf("%s:%d", host, port)
			log.Default().Infof("shelfcontrol serving on http://%s", addr)
			return http.ListenAndServe(addr, srv)
		},
	}

	cmd.Flags().StringVar(&dbFile, "dbFile", defaults.DBFile, "path to the index/counts store built by the index command")
	cmd.Flags().StringVar(&coverDir, "coverdir", defaults.CoverDir, "directory covers were extracted into; empty means extract on demand")
	cmd.Flags().StringVar(&host, "host", defaults.Host, "address to bind")
	cmd.Flags().IntVar(&port, "port", defaults.Port, "port to listen on")

	return cmd
}
