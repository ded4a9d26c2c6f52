package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// bannerOut is where banners are written
var bannerOut io.Writer = os.Stderr

var (
	bannerLine = banner.ColorCyan
	bannerText = banner.ColorBold + banner.ColorWhite
)

func rule(width int) string {
	return bannerLine + strings.Repeat("═", width) + banner.ColorReset
}

func textLine(s string) {
	fmt.Fprintf(bannerOut, "%s%s%s\n", bannerText, s, banner.ColorReset)
}

// PrintBanner displays the application startup banner.
func PrintBanner(config *Config, logger *Logger) {
	info := GetVersionInfo()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	storage := "memory"
	if config.Storage.Address != "" {
		storage = config.Storage.Address
	}
	cache := "disabled"
	if config.Cache.Enabled() {
		cache = "redis (" + config.Cache.GetTTL().String() + ")"
	}
	schedule := "disabled"
	if config.Batch.Schedule != "" {
		schedule = config.Batch.Schedule
	}

	art := []string{
		` _   _      _                                     `,
		`| |_(_) ___| | _____ _ __ ___  ___ ___  _ __   ___ `,
		`| __| |/ __| |/ / _ \ '__/ __|/ __/ _ \| '_ \ / _ \`,
		`| |_| | (__|   <  __/ |  \__ \ (_| (_) | |_) |  __/`,
		` \__|_|\___|_|\_\___|_|  |___/\___\___/| .__/ \___|`,
		`                                       |_|         `,
	}
	rows := [][2]string{
		{"Version", info.Version},
		{"Build", info.Build},
		{"Commit", info.Commit},
		{"Environment", config.Environment},
		{"Service URL", serviceURL},
		{"Storage", storage},
		{"Cache", cache},
		{"Batch schedule", schedule},
		{"Auth", fmt.Sprintf("%t", config.Auth.Enabled())},
	}

	hr := rule(70)
	fmt.Fprintf(bannerOut, "\n%s\n\n", hr)
	for _, line := range art {
		textLine(line)
	}
	fmt.Fprintln(bannerOut)
	textLine("  Technical Signals & Market Scanning")
	fmt.Fprintf(bannerOut, "\n%s\n\n", hr)
	for _, kv := range rows {
		textLine(fmt.Sprintf("  %-16s %s", kv[0], kv[1]))
	}
	fmt.Fprintf(bannerOut, "\n%s\n\n", hr)

	logger.Info().
		Str("version", info.Version).
		Str("build", info.Build).
		Str("commit", info.Commit).
		Str("environment", config.Environment).
		Str("service_url", serviceURL).
		Str("storage", storage).
		Str("cache", cache).
		Msg("Application started")
}

// PrintShutdownBanner displays the application shutdown banner.
func PrintShutdownBanner(logger *Logger) {
	hr := rule(42)
	fmt.Fprintf(bannerOut, "\n%s\n", hr)
	textLine("  TICKERSCOPE SHUTTING DOWN")
	fmt.Fprintf(bannerOut, "%s\n\n", hr)

	logger.Info().Msg("Application shutting down")
}
