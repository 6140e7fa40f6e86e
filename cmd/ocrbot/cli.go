package main

import "time"

// CLI defines the bot's configuration surface. Everything is also
// settable through the environment for container deployments.
type CLI struct {
	Token string `help:"Telegram bot token." env:"BOT_TOKEN" required:""`

	WebhookURL string `help:"Public webhook URL. Empty means long polling." env:"WEBHOOK_URL"`
	Port       int    `help:"Webhook listen port." env:"PORT" default:"8443"`

	OCRBackend   string        `help:"OCR backend to use." env:"OCR_BACKEND" enum:"tesseract,ocrspace" default:"tesseract"`
	OCRAPIKey    string        `help:"OCR.space API key. Empty uses the anonymous tier." env:"OCR_API_KEY"`
	OCRLanguages []string      `help:"OCR language hints, in priority order." env:"OCR_LANGUAGES" default:"eng,rus"`
	OCRTimeout   time.Duration `help:"Timeout for a single remote OCR call." env:"OCR_TIMEOUT" default:"30s"`
	CacheSize    int           `help:"Number of OCR results kept in the memo cache." env:"OCR_CACHE_SIZE" default:"128"`

	SessionDB string `help:"Sessions database path. ':memory:' for in-memory SQLite, empty for a plain in-process store." env:"SESSION_DB" default:":memory:"`

	Concurrency int    `help:"Updates handled in parallel." env:"BOT_CONCURRENCY" default:"8"`
	LogLevel    string `help:"Log level." env:"LOG_LEVEL" enum:"debug,info,warn,error" default:"info"`
}
