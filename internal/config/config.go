package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"roulettebot/internal/roulette"
)

// Config holds all application configuration, read from the environment
// with an optional config.env file on top.
type Config struct {
	BotToken string
	AdminIDs []int64

	// Crypto Pay
	CryptoPayToken   string
	CryptoPayBaseURL string

	// Attempt pricing
	PriceAmount   float64
	PriceCurrency string
	BuyPackages   []int

	PrizeTiers []roulette.Tier

	// Snapshot persistence
	SnapshotBackend  string // file, redis, postgres or memory
	SnapshotPath     string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisSnapshotKey string
	PostgresDSN      string
}

const (
	defaultPrizeTable  = "10=💎 Приз A (Крупный);30=💰 Приз B (Средний);60=🎁 Приз C (Малый)"
	defaultBuyPackages = "1,5,10"
)

func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		CryptoPayToken:   os.Getenv("CRYPTO_PAY_TOKEN"),
		CryptoPayBaseURL: getEnv("CRYPTO_PAY_BASE_URL", "https://pay.crypt.bot/api"),
		PriceCurrency:    getEnv("PRICE_CURRENCY", "USDT"),
		SnapshotBackend:  getEnv("SNAPSHOT_BACKEND", "file"),
		SnapshotPath:     getEnv("SNAPSHOT_PATH", "data/user_data.json"),
		RedisAddr:        fmt.Sprintf("%s:%s", getEnv("REDIS_HOST", "localhost"), getEnv("REDIS_PORT", "6379")),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisSnapshotKey: getEnv("SNAPSHOT_REDIS_KEY", "roulette:snapshot"),
		PostgresDSN:      strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	var err error
	if cfg.AdminIDs, err = parseIDList(os.Getenv("ADMIN_IDS")); err != nil {
		return nil, fmt.Errorf("invalid ADMIN_IDS: %w", err)
	}
	if cfg.PriceAmount, err = parseFloat("PRICE_PER_ATTEMPT", getEnv("PRICE_PER_ATTEMPT", "0.1")); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseInt("REDIS_DB", getEnv("REDIS_DB", "0")); err != nil {
		return nil, err
	}
	if cfg.BuyPackages, err = parsePackages(getEnv("BUY_PACKAGES", defaultBuyPackages)); err != nil {
		return nil, fmt.Errorf("invalid BUY_PACKAGES: %w", err)
	}
	if cfg.PrizeTiers, err = parsePrizeTable(getEnv("PRIZE_TABLE", defaultPrizeTable)); err != nil {
		return nil, fmt.Errorf("invalid PRIZE_TABLE: %w", err)
	}

	switch cfg.SnapshotBackend {
	case "file", "redis", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown SNAPSHOT_BACKEND %q", cfg.SnapshotBackend)
	}

	if cfg.SnapshotBackend == "postgres" && cfg.PostgresDSN == "" {
		cfg.PostgresDSN = buildPostgresDSNFromEnv()
	}

	return cfg, nil
}

// IsAdmin reports whether the id is one of the configured operators.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func parseInt(name, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return v, nil
}

func parseFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return v, nil
}

func parseIDList(raw string) ([]int64, error) {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	var ids []int64
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parsePackages(raw string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad package size %q", p)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty package list")
	}
	return out, nil
}

// parsePrizeTable reads "threshold=label;threshold=label;..." with
// thresholds in 1..100.
func parsePrizeTable(raw string) ([]roulette.Tier, error) {
	var tiers []roulette.Tier
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("bad entry %q", entry)
		}
		threshold, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || threshold < 1 || threshold > 100 {
			return nil, fmt.Errorf("bad threshold %q", k)
		}
		label := strings.TrimSpace(v)
		if label == "" {
			return nil, fmt.Errorf("empty prize label in %q", entry)
		}
		tiers = append(tiers, roulette.Tier{Threshold: threshold, Prize: label})
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("empty prize table")
	}
	return tiers, nil
}

func buildPostgresDSNFromEnv() string {
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	db := getEnv("POSTGRES_DB", "roulette")
	user := getEnv("POSTGRES_USER", "roulette")
	pass := os.Getenv("POSTGRES_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", urlEscape(user), urlEscape(pass), host, port, db)
}

func urlEscape(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		":", "%3A",
		"/", "%2F",
		"@", "%40",
		"?", "%3F",
		"#", "%23",
		"[", "%5B",
		"]", "%5D",
	)
	return r.Replace(s)
}
