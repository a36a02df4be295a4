package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zloyaloha/web-searcher/internal/index"
	"github.com/zloyaloha/web-searcher/pkg/logger"
)

const progressEvery = 500

// Downloader pulls crawled pages from the store and pushes their extracted
// text through an indexator.
type Downloader struct {
	store     *Store
	indexator index.Indexator
	limit     int
	logger    *slog.Logger
}

// NewDownloader creates a Downloader. A limit of 0 means the whole corpus.
func NewDownloader(store *Store, ix index.Indexator, limit int) *Downloader {
	return &Downloader{
		store:     store,
		indexator: ix,
		limit:     limit,
		logger:    logger.WithComponent("ingestion"),
	}
}

// Run streams the corpus into the indexator and returns the number of
// documents ingested. Pages missing a url or html content are skipped.
func (d *Downloader) Run(ctx context.Context) (int, error) {
	cur, err := d.store.Documents(ctx)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	start := time.Now()
	count := 0
	var htmlBytes, textBytes int64

	for cur.Next(ctx) {
		var doc Document
		if err := cur.Decode(&doc); err != nil {
			return count, fmt.Errorf("decoding document %d: %w", count, err)
		}
		if doc.URL == "" || doc.HTML == "" {
			continue
		}

		text := ExtractText(doc.HTML)
		d.indexator.AddDocument(doc.URL, text)

		htmlBytes += int64(len(doc.HTML))
		textBytes += int64(len(text))
		count++
		if count%progressEvery == 0 {
			d.logger.Info("ingestion progress",
				"docs", count,
				"html_mb", htmlBytes>>20,
			)
		}
		if d.limit > 0 && count == d.limit {
			break
		}
	}
	if err := cur.Err(); err != nil {
		return count, fmt.Errorf("iterating documents: %w", err)
	}

	elapsed := time.Since(start)
	speed := 0.0
	if elapsed > 0 {
		speed = float64(textBytes) / 1024.0 / elapsed.Seconds()
	}
	d.logger.Info("ingestion finished",
		"docs", count,
		"html_mb", htmlBytes>>20,
		"text_mb", textBytes>>20,
		"elapsed", elapsed.Round(time.Millisecond),
		"kb_per_sec", int64(speed),
	)
	return count, nil
}
