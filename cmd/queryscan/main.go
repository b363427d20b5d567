package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sitewright/queryscan/internal/config"
	"github.com/sitewright/queryscan/internal/discover"
	"github.com/sitewright/queryscan/internal/extract"
	"github.com/sitewright/queryscan/internal/parser"
	"github.com/sitewright/queryscan/internal/store"
	"github.com/sitewright/queryscan/internal/watcher"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	dbPath := flag.String("db", "", "persist extracted definitions to this SQLite registry")
	watch := flag.Bool("watch", false, "keep running and re-extract on file change")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *showVersion {
		fmt.Println("queryscan", version)
		os.Exit(0)
	}

	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(root)

	var reg *store.Store
	if *dbPath != "" {
		var err error
		reg, err = store.OpenPath(*dbPath)
		if err != nil {
			log.Fatalf("registry open err=%v", err)
		}
		defer reg.Close()
	}

	fp := extract.NewFileParser(cfg.Options(), parser.NewAdapter(), extract.NewMemoryCache(), extract.LogReporter{})

	scan := func(ctx context.Context, files []discover.FileInfo) error {
		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = f.Path
		}
		docs := fp.ParseFiles(ctx, paths)

		total := 0
		for path, doc := range docs {
			total += len(doc.Definitions)
			if reg != nil {
				if err := reg.ReplaceFileDocument(path, doc.Hash, doc); err != nil {
					slog.Warn("registry.write", "file", path, "err", err)
				}
			}
		}
		slog.Info("scan.done", "files", len(files), "documents", len(docs), "definitions", total)
		return nil
	}

	files, err := discover.Discover(ctx, root, &discover.Options{ExtraPatterns: cfg.IgnorePatterns})
	if err != nil {
		log.Fatalf("discover err=%v", err)
	}
	if err := scan(ctx, files); err != nil {
		log.Fatalf("scan err=%v", err)
	}

	if *watch {
		slog.Info("watch.start", "root", root)
		watcher.New(root, scan).Run(ctx)
	}
}
