// Taskline server entry point. Wires the SQLite store, the repository and
// the HTTP router, then serves the REST API.
package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/rs/cors"

	"github.com/kimhsiao/taskline/cmd/server/handlers"
	"github.com/kimhsiao/taskline/internal/config"
	"github.com/kimhsiao/taskline/internal/db"
	"github.com/kimhsiao/taskline/internal/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("TASKLINE_CONFIG"), "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logging.WithFields(map[string]interface{}{"error": err.Error()}).
			Error("server exited")
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Init(os.Stdout, cfg.LogLevel)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	router := handlers.NewRouter(db.NewRepository(database))
	handler := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch,
			http.MethodPut, http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	listener, port, err := listen(cfg.Port, cfg.FallbackPort)
	if err != nil {
		return err
	}

	logging.WithFields(map[string]interface{}{"port": port}).
		Info("server listening")
	return http.Serve(listener, handler)
}

// listen binds the preferred port, falling back once when it is taken.
func listen(port, fallback int) (net.Listener, int, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err == nil {
		return listener, port, nil
	}

	logging.WithFields(map[string]interface{}{"port": port, "fallback": fallback}).
		Warn("port in use, trying fallback")

	listener, ferr := net.Listen("tcp", fmt.Sprintf(":%d", fallback))
	if ferr != nil {
		return nil, 0, fmt.Errorf("binding port %d and fallback %d: %w", port, fallback, ferr)
	}
	return listener, fallback, nil
}
