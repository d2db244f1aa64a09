package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bcorrigan/shelfcontrol/internal/config"
	"github.com/bcorrigan/shelfcontrol/internal/ingest"
)

func newIndexCmd(defaults config.Config) *cobra.Command {
	var (
		dirs     []string
		dbFile   string
		coverDir string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan one or more directories of EPUBs and build the search index and counts store",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ingest.Run(context.Background(), ingest.Options{
				LibraryDirs: dirs,
				IndexPath:   dbFile,
				CountsPath:  filepath.Join(dbFile, "counts.sqlite"),
				CoverDir:    coverDir,
				Workers:     workers,
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, "index error:", err)
				os.Exit(exitCodeFor(err))
			}
			fmt.Printf("scanned=%d indexed=%d skipped=%d errors=%d\n",
				res.Scanned, res.Indexed, res.Skipped, res.Errors)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&dirs, "dir", []string{defaults.LibraryDir}, "directory of EPUB files to index (repeatable)")
	cmd.Flags().StringVar(&dbFile, "dbFile", defaults.DBFile, "path to the index/counts store, must not already exist")
	cmd.Flags().StringVar(&coverDir, "coverdir", defaults.CoverDir, "directory to write extracted cover images into")
	cmd.Flags().IntVar(&workers, "workers", defaults.Workers, "number of parallel EPUB parser workers")

	return cmd
}

// exitCodeFor maps an ingest.Run error to the process exit code the
// external interface contract assigns it: 3 for a missing input
// directory, 4 for a missing cover directory, 1 for a directory walk
// failure, 2 for anything else.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, ingest.ErrMissingLibraryDir):
		return 3
	case errors.Is(err, ingest.ErrMissingCoverDir):
		return 4
	case errors.Is(err, ingest.ErrWalkFailed):
		return 1
	default:
		return 2
	}
}
