package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Hara602/hidSentry/internal/sysutil"
	"github.com/Hara602/hidSentry/internal/whitelist"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  whitelist -db whitelist.db add -vendor 046d -product c52b [-serial SN] [-reason text]
  whitelist -db whitelist.db list
`)
	os.Exit(2)
}

func main() {
	dbPath := flag.String("db", "whitelist.db", "sqlite whitelist database")
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	sysutil.InitLogger("info")
	defer sysutil.Log.Sync()

	store, err := whitelist.OpenStore(*dbPath)
	if err != nil {
		sysutil.Log.Fatal("Open whitelist database failed", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()

	switch flag.Arg(0) {
	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		vendor := fs.String("vendor", "", "USB vendor id, e.g. 046d")
		product := fs.String("product", "", "USB product id, e.g. c52b")
		serial := fs.String("serial", "", "serial number (empty matches any)")
		reason := fs.String("reason", "", "why this device is trusted")
		fs.Parse(flag.Args()[1:])
		if *vendor == "" || *product == "" {
			usage()
		}
		e := whitelist.Entry{Vendor: *vendor, Product: *product, Serial: *serial}
		if err := store.Add(ctx, e, *reason); err != nil {
			sysutil.Log.Fatal("Add whitelist entry failed", zap.Error(err))
		}
		sysutil.Log.Info("✅ Whitelist entry added",
			zap.String("vid", e.Vendor), zap.String("pid", e.Product), zap.String("serial", e.Serial))

	case "list":
		entries, err := store.Entries(ctx)
		if err != nil {
			sysutil.Log.Fatal("List whitelist failed", zap.Error(err))
		}
		for _, e := range entries {
			serial := e.Serial
			if serial == "" {
				serial = "*"
			}
			fmt.Printf("%s:%s\t%s\n", e.Vendor, e.Product, serial)
		}

	default:
		usage()
	}
}
