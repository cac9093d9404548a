package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/glucose-diary/internal/config"
)

func main() {
	os.Exit(run(os.Stdout))
}

func run(w io.Writer) int {
	fmt.Fprintln(w, "🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(w, "⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(w, "❌ Failed to load configuration:\n%v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(w, "❌ Configuration is invalid:\n%v\n", err)
		return 1
	}

	fmt.Fprintln(w, "✅ Configuration is valid!")
	printConfig(w, cfg)
	return 0
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "📋 Configuration details:\n")
	fmt.Fprintf(w, "  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Fprintf(w, "  - Timezone: %s\n", cfg.Timezone)
	fmt.Fprintf(w, "  - Storage: %s\n", cfg.StorageBackend)
	if cfg.StorageBackend == config.BackendPostgres {
		fmt.Fprintf(w, "  - DB Host: %s\n", cfg.DB.Host)
		fmt.Fprintf(w, "  - DB Port: %s\n", cfg.DB.Port)
		fmt.Fprintf(w, "  - DB User: %s\n", cfg.DB.User)
		fmt.Fprintf(w, "  - DB Password: %s\n", maskToken(cfg.DB.Password))
		fmt.Fprintf(w, "  - DB Name: %s\n", cfg.DB.DBName)
	}
	fmt.Fprintf(w, "  - State: %s\n", cfg.StateBackend)
	if cfg.StateBackend == config.BackendRedis {
		fmt.Fprintf(w, "  - Redis Addr: %s\n", cfg.Redis.Addr())
		fmt.Fprintf(w, "  - Redis Password: %s\n", maskToken(cfg.Redis.Password))
		fmt.Fprintf(w, "  - Session TTL: %s\n", cfg.Redis.StateTTL)
	}
	if cfg.AMQP.Enabled() {
		fmt.Fprintf(w, "  - AMQP URL: %s\n", maskToken(cfg.AMQP.URL))
		fmt.Fprintf(w, "  - AMQP Queue: %s\n", cfg.AMQP.Queue)
	} else {
		fmt.Fprintf(w, "  - Events: disabled\n")
	}
	fmt.Fprintf(w, "  - Log Level: %s\n", cfg.Logger.Level)
	fmt.Fprintf(w, "  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Fprintf(w, "  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
