// Command mapty-mcp serves the Mapty MCP tools over stdio, backed by a
// remote Mapty REST API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/mapty/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	baseURL := flag.String("url", os.Getenv("MAPTY_URL"), "Mapty server base URL (e.g. http://mapty)")
	apiKey := flag.String("api-key", os.Getenv("MAPTY_API_KEY"), "API key for logging workouts")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *baseURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: mapty-mcp -url http://mapty [-api-key KEY]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	client := mcp.NewHTTPClient(*baseURL, *apiKey)
	s := mcp.New(client, Version, log)

	log.Info("mapty-mcp serving stdio", "url", *baseURL)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("stdio server failed", "error", err)
		os.Exit(1)
	}
}
