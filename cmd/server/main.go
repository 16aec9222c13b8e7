/*
main.go - Preview server entry point

PURPOSE:
  Serves the read-only payroll preview API. The server never sends
  transfers; use cmd/payroll for that.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite invoice store
  3. Create API handler bound to the payload
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -payload  Payroll payload file (default: tutorpayrollpayload.json)
  -db       SQLite database path (default: ":memory:")

EXAMPLES:
  ./server -payload=./may.toml
  ./server -db="./data/invoices.db" -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Invoice store
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/tutor-payroll/api"
	"github.com/warp/tutor-payroll/cli"
	"github.com/warp/tutor-payroll/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	payloadPath := flag.String("payload", cli.DefaultPayloadPath, "payroll payload file (.json or .toml)")
	dbPath := flag.String("db", ":memory:", "SQLite database path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, *payloadPath)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Preview server starting on http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
