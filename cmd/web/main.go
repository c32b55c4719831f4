// cmd/web/main.go
//
// Parcelpoint – demo host entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load and validate config; resolve vault: secrets when VAULT_ADDR
//     is present.
//
//  4. Open the GeoLite2 database (optional) and the shipment archive
//     pool (optional; empty DSN runs without persistence).
//
//  5. Build the shared selector singletons: one document, one script
//     loader, one attachment guard, one mount registry.
//
//  6. Register the demo entry-point shim.  The real picker script is
//     JavaScript this process cannot evaluate, so after the last script
//     loads, the shim stands in for the global the script would have
//     registered and draws a plain placeholder into the target.
//
//  7. Mount routes and serve.
//
// Large comment blocks are framed by blank “//” lines; inline comments
// use a single “//”.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/yanizio/parcelpoint/internal/config"
	"github.com/yanizio/parcelpoint/internal/database"
	"github.com/yanizio/parcelpoint/internal/host"
	"github.com/yanizio/parcelpoint/internal/logger"
	"github.com/yanizio/parcelpoint/internal/requestinfo"
	"github.com/yanizio/parcelpoint/internal/selector"
	"github.com/yanizio/parcelpoint/internal/server"
	"github.com/yanizio/parcelpoint/internal/shipment"
	"github.com/yanizio/parcelpoint/internal/vault"
)

const serverEnvPath = "/usr/local/etc/parcelpoint/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx := context.Background()

	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Config + secrets ────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	var vcli *vault.Client
	if os.Getenv("VAULT_ADDR") != "" {
		if vcli, err = vault.New(ctx); err != nil {
			logOut.Fatalf("vault client: %v", err)
		}
	}
	if err := config.Resolve(ctx, cfg, vcli); err != nil {
		logOut.Fatalf("resolve secrets: %v", err)
	}

	//
	// ── 2.  Optional geo + shipment archive ─────────────────────────────
	//
	if cfg.Geo.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
			logOut.Warnw("geo database unavailable, country defaulting disabled",
				"path", cfg.Geo.DBPath, "err", err)
		}
	}

	var store *shipment.Store
	if cfg.Database.DSN != "" {
		db, err := database.Open(cfg.Database.DSN)
		if err != nil {
			logOut.Fatalf("connect shipment archive: %v", err)
		}
		defer db.Close()
		store = shipment.NewStore(db)
		logOut.Infow("shipment archive online")
	} else {
		logOut.Infow("no database DSN, running without the shipment archive")
	}

	//
	// ── 3.  Shared selector singletons ──────────────────────────────────
	//
	doc := host.NewMemDoc()
	registerEntryShim(doc, cfg)

	app := &app{
		cfg:    cfg,
		doc:    doc,
		loader: selector.NewLoader(doc),
		guard:  selector.NewGuard(doc, cfg.Picker.EntryPoint),
		mounts: selector.NewRegistry(),
		client: shipment.NewClient(
			cfg.Carrier.EndpointURL,
			cfg.Carrier.UseSOAP,
			shipment.Credentials{
				AccountNumber: cfg.Carrier.AccountNumber,
				Password:      cfg.Carrier.Password,
			},
			carrierTimeout(cfg),
		),
		store: store,
	}

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, app.routes(), carrierTimeout(cfg))
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}

// registerEntryShim installs the stand-in for the picker's global symbol
// once the last script has loaded, mirroring what the real script does in
// a browser.
func registerEntryShim(doc *host.MemDoc, cfg *config.Config) {
	urls := cfg.Picker.ScriptURLs
	last := urls[len(urls)-1]
	doc.OnScriptLoad(last, func(d *host.MemDoc) {
		d.RegisterEntryPoint(cfg.Picker.EntryPoint, func(call host.EntryCall) error {
			return d.SetContent(call.TargetID,
				`<div class="pickup-widget" data-brand="`+call.BrandID+`">`+
					`parcel-shop picker (`+call.Country+` `+call.Postcode+`)</div>`)
		})
	})
}
