// Command searcher builds the inverted index from the crawled corpus and
// answers queries against an existing dump.
//
// Build mode (-i) streams documents from the corpus store, indexes them, and
// writes the binary dump. Without -i the dump is memory-mapped and queries
// are read interactively from stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/zloyaloha/web-searcher/internal/index"
	"github.com/zloyaloha/web-searcher/internal/ingestion"
	"github.com/zloyaloha/web-searcher/internal/searcher"
	"github.com/zloyaloha/web-searcher/internal/tokenizer"
	"github.com/zloyaloha/web-searcher/pkg/config"
	"github.com/zloyaloha/web-searcher/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		buildMode  bool
		compress   bool
		docLimit   = flag.Int("limit", 0, "cap the number of documents ingested (0 = all)")
		dumpPath   = flag.String("dump", "", "index dump path (overrides config)")
		ranked     = flag.Bool("rank", false, "rank query results with tf-idf")
	)
	flag.BoolVar(&buildMode, "i", false, "build the index and dump it")
	flag.BoolVar(&buildMode, "index", false, "build the index and dump it")
	flag.BoolVar(&compress, "z", false, "write the dump with delta+varint postings")
	flag.BoolVar(&compress, "zip", false, "write the dump with delta+varint postings")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if *dumpPath != "" {
		cfg.Index.DumpPath = *dumpPath
	}
	if compress {
		cfg.Index.Compress = true
	}
	if *docLimit > 0 {
		cfg.Index.DocLimit = *docLimit
	}

	if buildMode {
		if err := runBuild(cfg); err != nil {
			slog.Error("index build failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := runQuery(cfg, *ranked); err != nil {
		slog.Error("query session failed", "error", err)
		os.Exit(1)
	}
}

func runBuild(cfg *config.Config) error {
	ctx := context.Background()

	store, err := ingestion.NewStore(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	builder := index.NewBuilder()
	tok := tokenizer.New(tokenizer.Porter{})
	indexator := index.NewTFIDFIndexator(builder, tok)

	downloader := ingestion.NewDownloader(store, indexator, cfg.Index.DocLimit)
	count, err := downloader.Run(ctx)
	if err != nil {
		return err
	}

	if err := builder.Dump(cfg.Index.DumpPath, cfg.Index.Compress); err != nil {
		return err
	}
	slog.Info("index dumped",
		"path", cfg.Index.DumpPath,
		"docs", count,
		"terms", builder.NumTerms(),
		"compressed", cfg.Index.Compress,
	)
	return nil
}

func runQuery(cfg *config.Config, ranked bool) error {
	mapped, err := index.Open(cfg.Index.DumpPath)
	if err != nil {
		return err
	}
	defer mapped.Close()
	slog.Info("index mapped",
		"path", cfg.Index.DumpPath,
		"version", mapped.Version(),
		"docs", mapped.NumDocs(),
		"terms", mapped.NumTerms(),
	)

	tok := tokenizer.New(tokenizer.Porter{})
	var s searcher.Searcher
	if ranked {
		s = searcher.NewTFIDF(mapped, tok)
	} else {
		s = searcher.NewBinary(mapped, tok)
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		query := scanner.Text()
		if query != "" {
			results := s.Find(query)
			for _, r := range results {
				if ranked {
					fmt.Printf("%s\t%.4f\n", r.URL, r.Score)
				} else {
					fmt.Println(r.URL)
				}
			}
			fmt.Printf("%d documents\n", len(results))
		}
		fmt.Print("> ")
	}
	fmt.Println()
	return scanner.Err()
}
