package ingest

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/bcorrigan/shelfcontrol/internal/aggregate"
	"github.com/bcorrigan/shelfcontrol/internal/searchindex"
)

// collect drains parsed books off ch, deduplicating by content-hash id
// (two different files can legitimately hash to the same book, e.g. a
// duplicate copy kept in two places), batching them into the search index
// in batchSize groups, and tallying per-author/publisher/tag counts for a
// single end-of-run write into the aggregate store.
func collect(idx *searchindex.Index, store *aggregate.Store, ch <-chan parsedBook, logger *log.Logger) (Result, error) {
	var res Result

	seen := make(map[int64]struct{})
	var seenMu sync.RWMutex

	authors := map[string]int64{}
	publishers := map[string]int64{}
	tags := map[string]int64{}

	batch := idx.NewBatch()

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := idx.Flush(batch); err != nil {
			return err
		}
		logger.Infof("flushed batch, %d indexed so far", res.Indexed)
		return nil
	}

	for pb := range ch {
		id := pb.meta.ID

		seenMu.RLock()
		_, dup := seen[id]
		seenMu.RUnlock()
		if dup {
			res.Skipped++
			continue
		}
		seenMu.Lock()
		seen[id] = struct{}{}
		seenMu.Unlock()

		if err := batch.Add(pb.meta); err != nil {
			return res, err
		}
		res.Indexed++

		if pb.meta.Creator != "" {
			authors[pb.meta.Creator]++
		}
		if pb.meta.Publisher != "" {
			publishers[pb.meta.Publisher]++
		}
		for _, t := range pb.meta.Tags {
			tags[t]++
		}

		if batch.Len() >= batchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}

	if err := flush(); err != nil {
		return res, err
	}
	if err := idx.Optimize(); err != nil {
		return res, err
	}

	if err := store.WriteCounts(aggregate.Authors, authors); err != nil {
		return res, err
	}
	if err := store.WriteCounts(aggregate.Publishers, publishers); err != nil {
		return res, err
	}
	if err := store.WriteCounts(aggregate.Tags, tags); err != nil {
		return res, err
	}

	return res, nil
}
