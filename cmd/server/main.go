package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/handlers"

	"bulb_meter/internal/estimator"
	"bulb_meter/internal/httpapi"
	"bulb_meter/internal/logparse"
	"bulb_meter/internal/logstore"
	"bulb_meter/internal/ws"
)

func main() {
	addrDefault := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addrDefault = ":" + port
	}

	addr := flag.String("addr", addrDefault, "listen address")
	inputDir := flag.String("input-dir", "", "optional directory of .log files to preload, one bulb per file")
	tariff := flag.String("tariff", "", "price per kWh as a decimal string; empty disables cost in estimates")
	flag.Parse()

	store := logstore.New()

	if *inputDir != "" {
		loaded, err := loadLogs(*inputDir, store)
		if err != nil {
			log.Fatalf("Failed to load logs: %v", err)
		}
		log.Printf("Preloaded %d bulb log(s) from %s", loaded, *inputDir)
	}

	hub := ws.NewHub()

	apiHandler := httpapi.NewHandler(store, *tariff, func(bulbID string) estimator.Callback {
		return ws.NewBridge(hub, bulbID)
	})
	router := httpapi.NewRouter(apiHandler)
	router.Handle("/ws", ws.NewHandler(hub))

	logged := handlers.LoggingHandler(os.Stdout, router)
	log.Printf("Bulb meter listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, logged))
}

// loadLogs registers one bulb per *.log file in dir and stores its events.
// The filename (without extension) becomes the bulb kind. Malformed lines are
// skipped, matching the interactive estimator's default.
func loadLogs(dir string, store *logstore.Store) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading input directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return loaded, fmt.Errorf("opening %s: %w", path, err)
		}

		reader := &logparse.LogReader{SkipInvalid: true}
		events, err := reader.Parse(f)
		f.Close()
		if err != nil {
			return loaded, fmt.Errorf("parsing %s: %w", path, err)
		}

		kind := strings.TrimSuffix(entry.Name(), ".log")
		bulb, err := store.AddBulb(kind, estimator.DefaultRatedPowerW)
		if err != nil {
			return loaded, fmt.Errorf("registering %s: %w", kind, err)
		}
		if err := store.AddEvents(bulb.ID, events); err != nil {
			return loaded, fmt.Errorf("storing %s: %w", kind, err)
		}

		log.Printf("Loaded %s: %d event(s) as bulb %s", path, len(events), bulb.ID)
		loaded++
	}

	return loaded, nil
}
