package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config) {
	version := GetVersion()
	build := GetBuild()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		`  .d8888b. 88888888888 .d88888b.   .d8888b. 888    d8P  .d8888b.`,
		` d88P  Y88b    888    d88P" "Y88b d88P  Y88b 888   d8P  d88P  Y88b`,
		` Y88b.         888    888     888 888    888 888  d8P   Y88b.`,
		`  "Y888b.      888    888     888 888        888d88K     "Y888b.`,
		`     "Y88b.    888    888     888 888        8888888b       "Y88b.`,
		`       "888    888    888     888 888    888 888  Y88b        "888`,
		` Y88b  d88P    888    Y88b. .d88P Y88b  d88P 888   Y88b Y88b  d88P`,
		`  "Y8888P"     888     "Y88888P"   "Y8888P"  888    Y88b "Y8888P"  SEER`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  version  : %s (build %s)\n", version, build)
	fmt.Fprintf(os.Stderr, "  env      : %s\n", config.Environment)
	fmt.Fprintf(os.Stderr, "  storage  : %s\n", config.Storage.Backend)
	fmt.Fprintf(os.Stderr, "  service  : %s\n", serviceURL)
	fmt.Fprintf(os.Stderr, "%s\n\n", hr)
}
