// snapshotdump inspects entity snapshots stored in PostgreSQL.
//
// Usage:
//
//	go run ./cmd/snapshotdump <command> [-scene name] [-outdir path]
//
// Commands: list, dump, verify
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/framewright/engine/internal/config"
	"github.com/framewright/engine/internal/persist"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	scene := fs.String("scene", "", "only this scene (default: all)")
	outDir := fs.String("outdir", "snapshots", "output directory for dump")
	cfgPath := fs.String("config", config.Path(), "engine config file")
	fs.Parse(os.Args[2:])

	if err := run(cmd, *cfgPath, *scene, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: snapshotdump <list|dump|verify> [-scene name] [-outdir path] [-config path]")
}

func run(cmd, cfgPath, scene, outDir string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := persist.Connect(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := persist.NewSnapshotRepo(db).List(ctx, scene)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	switch cmd {
	case "list":
		for _, r := range rows {
			fmt.Printf("%s  %-12s %-20s %s  %x\n", r.UUID, r.Scene, r.Name, r.SavedAt.Format(time.DateTime), r.Digest[:6])
		}
		fmt.Printf("%d snapshots\n", len(rows))
	case "dump":
		for _, r := range rows {
			dir := filepath.Join(outDir, r.Scene)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(dir, fileName(r))
			if err := os.WriteFile(path, r.Document, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
		fmt.Printf("wrote %d snapshots to %s\n", len(rows), outDir)
	case "verify":
		bad := 0
		for _, r := range rows {
			if !bytes.Equal(persist.Digest(r.Document), r.Digest) {
				fmt.Printf("digest mismatch: %s (%s)\n", r.UUID, r.Name)
				bad++
			}
		}
		if bad > 0 {
			return fmt.Errorf("%d of %d snapshots failed verification", bad, len(rows))
		}
		fmt.Printf("%d snapshots verified\n", len(rows))
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func fileName(r persist.SnapshotRow) string {
	if r.Name == "" {
		return r.UUID.String() + ".yaml"
	}
	return r.Name + "-" + r.UUID.String()[:8] + ".yaml"
}
