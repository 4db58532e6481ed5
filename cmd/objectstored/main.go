package main

import (
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"syscall"

	"github.com/gorilla/handlers"

	"github.com/s3lite/objectstore/pkg/metadata"
	"github.com/s3lite/objectstore/pkg/middleware"
	"github.com/s3lite/objectstore/pkg/server"
	"github.com/s3lite/objectstore/pkg/storage"
)

// config holds the four knobs the engine accepts, CLI flag winning over
// environment variable when both are set.
type config struct {
	Host        string
	Port        string
	StorageDir  string
	DatabaseURL string
	Migrate     bool
}

func stringFlagOrEnv(flagVal, envKey, def string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return def
}

func loadConfig() config {
	host := flag.String("host", "", "bind host (env OBJECT_STORE_HOST, default 0.0.0.0)")
	port := flag.String("port", "", "bind port (env OBJECT_STORE_PORT, default 3000)")
	storageDir := flag.String("storage-dir", "", "payload storage directory (env OBJECT_STORE_STORAGE_DIR, default ./data/objects)")
	databaseURL := flag.String("database-url", "", "metadata database URL (env OBJECT_STORE_DATABASE_URL, default sqlite://./data/meta/object_store.db)")
	migrate := flag.Bool("migrate", false, "run schema migration and exit")
	flag.Parse()

	return config{
		Host:        stringFlagOrEnv(*host, "OBJECT_STORE_HOST", "0.0.0.0"),
		Port:        stringFlagOrEnv(*port, "OBJECT_STORE_PORT", "3000"),
		StorageDir:  stringFlagOrEnv(*storageDir, "OBJECT_STORE_STORAGE_DIR", "./data/objects"),
		DatabaseURL: stringFlagOrEnv(*databaseURL, "OBJECT_STORE_DATABASE_URL", "sqlite://./data/meta/object_store.db"),
		Migrate:     *migrate,
	}
}

func main() {
	cfg := loadConfig()
	log.Printf("starting object store: storage-dir=%s database-url=%s", cfg.StorageDir, cfg.DatabaseURL)

	meta, err := metadata.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("opening metadata store: %v", err)
	}
	defer meta.Close()

	if err := meta.Migrate(); err != nil {
		log.Fatalf("running schema migration: %v", err)
	}
	if cfg.Migrate {
		log.Printf("migration complete, exiting")
		return
	}

	store, err := storage.New(cfg.StorageDir, meta)
	if err != nil {
		log.Fatalf("initializing storage engine: %v", err)
	}

	handler := middleware.NewPathSanitizer(server.New(store))
	logged := handlers.CombinedLoggingHandler(log.Writer(), handler)

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil && errors.Is(err, syscall.EACCES) && (cfg.Host == "0.0.0.0" || cfg.Host == "::") {
		fallback := net.JoinHostPort("127.0.0.1", cfg.Port)
		log.Printf("permission denied binding %s (%v); falling back to %s", addr, err, fallback)
		listener, err = net.Listen("tcp", fallback)
	}
	if err != nil {
		log.Fatalf("failed to bind: %v", err)
	}

	log.Printf("listening on http://%s", listener.Addr())
	if err := http.Serve(listener, logged); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
