// Package ingest walks a library directory, parses every EPUB it finds, and
// writes the resulting metadata into the search index and the aggregate
// counts store. A run always rebuilds both stores from scratch; there is no
// incremental re-index.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/bcorrigan/shelfcontrol/internal/aggregate"
	"github.com/bcorrigan/shelfcontrol/internal/epub"
	"github.com/bcorrigan/shelfcontrol/internal/identity"
	"github.com/bcorrigan/shelfcontrol/internal/model"
	"github.com/bcorrigan/shelfcontrol/internal/searchindex"
)

// batchSize matches the donor lineage's own tuning: large enough that
// index-segment churn stays low, small enough that a crash mid-run only
// loses one batch's worth of work.
const batchSize = 10000

// ErrMissingLibraryDir and ErrMissingCoverDir let cmd/shelfcontrol map a
// preflight failure to the distinct exit codes the command line contract
// requires, without cmd reaching into ingest's internals.
var (
	ErrMissingLibraryDir = errors.New("input directory does not exist")
	ErrMissingCoverDir   = errors.New("cover directory does not exist")
	ErrWalkFailed        = errors.New("library directory walk failed")
)

// Options configures a single ingestion run.
type Options struct {
	LibraryDirs []string
	IndexPath   string
	CountsPath  string
	CoverDir    string
	Workers     int
}

// Result summarizes a completed run.
type Result struct {
	Scanned int
	Indexed int
	Skipped int
	Errors  int
}

// Run walks every directory in Options.LibraryDirs, parses every .epub file
// it finds, and writes the results into a fresh search index and aggregate
// store. Both output paths must not already exist.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := log.Default()

	for _, dir := range opts.LibraryDirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingLibraryDir, dir)
		}
	}
	if opts.CoverDir != "" {
		if info, err := os.Stat(opts.CoverDir); err != nil || !info.IsDir() {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingCoverDir, opts.CoverDir)
		}
	}

	var paths []string
	for _, dir := range opts.LibraryDirs {
		found, err := scan(dir)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %s: %v", ErrWalkFailed, dir, err)
		}
		paths = append(paths, found...)
	}
	logger.Infof("found %d epub files under %d director(ies)", len(paths), len(opts.LibraryDirs))

	idx, err := searchindex.Create(opts.IndexPath)
	if err != nil {
		return Result{}, err
	}
	defer idx.Close()

	store, err := aggregate.Create(opts.CountsPath)
	if err != nil {
		return Result{}, err
	}
	defer store.Close()

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	parsedCh := make(chan parsedBook, workers*2)
	jobs := make(chan string, workers*2)

	var wg sync.WaitGroup
	var errCount int
	var errMu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				pb, err := parseOne(path, opts.CoverDir)
				if err != nil {
					errMu.Lock()
					errCount++
					errMu.Unlock()
					logger.Warnf("parse %s: %v", path, err)
					continue
				}
				parsedCh <- pb
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- p:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(parsedCh)
	}()

	res, err := collect(idx, store, parsedCh, logger)
	if err != nil {
		return res, err
	}
	res.Errors = errCount
	res.Scanned = len(paths)

	logger.Infof("ingest complete: scanned=%d indexed=%d skipped=%d errors=%d",
		res.Scanned, res.Indexed, res.Skipped, res.Errors)

	return res, nil
}

// scan walks dir for regular files named *.epub, skipping hidden files and
// directories (any path component below dir starting with '.'). The donor
// lineage's own walker tested the path with starts_with(".epub") instead
// of matching the extension; this predicate requires a literal,
// case-insensitive ".epub" extension on a visible, regular file.
func scan(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".epub") {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

type parsedBook struct {
	meta  model.BookMetadata
	cover []byte
}

func parseOne(path, coverDir string) (parsedBook, error) {
	canonical, err := canonicalizePath(path)
	if err != nil {
		return parsedBook{}, fmt.Errorf("canonicalize %s: %w", path, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return parsedBook{}, err
	}

	p, err := epub.Parse(canonical)
	if err != nil {
		return parsedBook{}, err
	}

	creator := identity.NormalizeCreator(p.Creator)

	var tags []string
	for _, s := range p.Subject {
		tags = append(tags, identity.SplitSubject(s)...)
	}

	id := identity.Hash(p.Title, p.Description, p.Publisher, creator, p.Subject, info.Size())

	bm := model.BookMetadata{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Publisher:   p.Publisher,
		Creator:     creator,
		Subject:     p.Subject,
		File:        canonical,
		FileSize:    info.Size(),
		ModTime:     info.ModTime().Unix(),
		PubDate:     p.PubDate,
		ModDate:     p.ModDate,
		CoverMIME:   p.CoverMIME,
		Tags:        tags,
	}

	if coverDir != "" && len(p.CoverBytes) > 0 {
		writeCover(coverDir, id, p.CoverBytes)
	}

	return parsedBook{meta: bm, cover: p.CoverBytes}, nil
}

// canonicalizePath resolves path to an absolute, symlink-free form so a
// book's identity never depends on the working directory or on a symlink
// that later changes target.
func canonicalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

func writeCover(coverDir string, id int64, data []byte) {
	path := filepath.Join(coverDir, CoverFilename(id))
	_ = os.WriteFile(path, data, 0o644)
}

// CoverFilename names the on-disk cover image for a book id: the bare id,
// no extension, since the image's MIME type is recorded in the search
// index rather than inferred from a file suffix. The HTTP server's
// /img/{id} handler builds the same bare-id name on its own.
func CoverFilename(id int64) string {
	return strconv.FormatInt(id, 10)
}
