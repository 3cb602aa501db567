// cmd/lessonlab/main.go
package main

import (
	"context"
	"os"

	"github.com/dalemusser/lessonlab/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

// main hands the lifecycle hooks to WAFFLE, which owns config loading,
// logging setup, the HTTP server, and graceful shutdown.
func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		os.Exit(1)
	}
}
