package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"modsync/core/archive"
	"modsync/core/config"
	"modsync/core/hashstore"
	"modsync/core/reconcile"

	"github.com/spf13/afero"
)

// Prints the plan a mod update would execute for a local pack archive,
// without touching the mods directory.
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s PACK.zip", os.Args[0])
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	modsDir, err := cfg.Paths.ModsDir()
	if err != nil {
		log.Fatal(err)
	}

	fs := afero.NewOsFs()

	pack, err := archive.Open(fs, os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer pack.Close()

	manifest := reconcile.Manifest{}
	var sums map[string]string
	if cfg.Sync.CompareHashes {
		if sums, err = pack.HashEntries(); err != nil {
			log.Fatal(err)
		}
	}
	for _, e := range pack.Entries() {
		manifest.Entries = append(manifest.Entries, reconcile.Entry{Name: e.Name, Size: e.Size, Hash: sums[e.Name]})
	}

	installed, err := hashstore.ListFiles(fs, modsDir)
	if err != nil {
		log.Fatal(err)
	}

	opts := reconcile.PlanOptions{CompareHashes: cfg.Sync.CompareHashes}
	if cfg.Sync.CompareHashes {
		if opts.Installed, err = hashstore.Scan(fs, modsDir); err != nil {
			log.Fatal(err)
		}
	}

	plan := reconcile.ComputePlan(installed, manifest, opts)

	fmt.Printf("=== Plan for %s against %s ===\n", os.Args[1], modsDir)
	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))

	if plan.IsNoop() {
		fmt.Println("Nothing to do")
	}
}
