package config

import (
	"flag"
	"os"
	"strings"
	"time"
)

// Default candidate lists, in priority order. The first success wins, so
// earlier entries should be the higher-quality or more available options.
var (
	DefaultAPIVersions = []string{"v1beta", "v1"}
	DefaultModels      = []string{"gemini-2.5-flash", "gemini-flash-latest", "gemini-pro-latest", "gemini-2.0-flash"}
)

type Config struct {
	APIKey         string
	UpstreamURL    string
	ProxyURL       string
	ListenAddr     string
	ServerURL      string
	RequestTimeout time.Duration
	// Candidate lists, order-significant (api-version varies slower than model).
	APIVersions []string
	Models      []string
}

func Load() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.APIKey, "api-key", getEnv("GEMINI_API_KEY", ""), "Gemini API key")
	flag.StringVar(&cfg.UpstreamURL, "upstream-url", getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com"), "Gemini API base URL")
	flag.StringVar(&cfg.ProxyURL, "proxy-url", getEnv("GEMINI_PROXY_URL", ""), "HTTP/HTTPS proxy URL for Gemini requests (e.g. http://proxy:8080)")
	flag.StringVar(&cfg.ListenAddr, "listen-addr", getEnv("LISTEN_ADDR", ":3000"), "Relay listen address")
	flag.StringVar(&cfg.ServerURL, "server-url", getEnv("CHAT_SERVER_URL", "http://localhost:3000"), "Relay base URL used by the interactive client")

	timeoutStr := getEnv("REQUEST_TIMEOUT", "30s")
	defaultTimeout, _ := time.ParseDuration(timeoutStr)
	if defaultTimeout == 0 {
		defaultTimeout = 30 * time.Second
	}
	flag.DurationVar(&cfg.RequestTimeout, "request-timeout", defaultTimeout, "Per-candidate Gemini round-trip timeout")

	versions := flag.String("api-versions", getEnv("GEMINI_API_VERSIONS", ""), "Comma-separated Gemini API versions to try, in priority order")
	models := flag.String("models", getEnv("GEMINI_MODELS", ""), "Comma-separated Gemini models to try, in priority order")

	flag.Parse()

	cfg.APIVersions = splitList(*versions, DefaultAPIVersions)
	cfg.Models = splitList(*models, DefaultModels)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated list, dropping empty entries.
// Returns fallback when the input contains no usable entries.
func splitList(s string, fallback []string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
