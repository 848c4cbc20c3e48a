// Package main is a tiny liveness probe for container images without curl.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/garyellow/casmate/internal/config"
)

func main() {
	port := os.Getenv(config.EnvPort)
	if port == "" {
		port = "10000"
	}

	path := "/healthz"
	if len(os.Args) > 1 && os.Args[1] == "ready" {
		path = "/ready"
	}

	client := &http.Client{Timeout: 8 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s%s", port, path))
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
