package main

import (
	"github.com/repopulse/repopulse/internal/cli"

	// Fallback CA bundle for containers without system roots.
	_ "golang.org/x/crypto/x509roots/fallback"
)

func main() {
	cli.Execute()
}
