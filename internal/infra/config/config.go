package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"kostadmin/internal/domain/contract"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	OutboxPollInterval time.Duration
	Contract           contract.Settings
	Billing            contract.BillingSettings
}

// Load parses configuration from the current environment. Mongo and Kafka
// are optional: without them the service runs on in-memory storage with the
// outbox idle, which is the dev default.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "kostadmin"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	autoRenew, err := parseBoolEnv("CONTRACT_AUTO_RENEW_DEFAULT", true)
	if err != nil {
		return Config{}, err
	}
	dailyMax, err := parseIntEnv("CONTRACT_DAILY_MAX_DAYS", 90)
	if err != nil {
		return Config{}, err
	}
	weeklyMax, err := parseIntEnv("CONTRACT_WEEKLY_MAX_WEEKS", 12)
	if err != nil {
		return Config{}, err
	}
	terms, err := parseIntListEnv("CONTRACT_MONTHLY_ALLOWED_TERMS", []int{1, 3, 6, 12})
	if err != nil {
		return Config{}, err
	}
	cfg.Contract = contract.Settings{
		AutoRenewDefault:    autoRenew,
		DailyMaxDays:        dailyMax,
		WeeklyMaxWeeks:      weeklyMax,
		MonthlyAllowedTerms: terms,
	}

	prorata, err := parseBoolEnv("BILLING_PRORATA", false)
	if err != nil {
		return Config{}, err
	}
	releaseDay, err := parseIntEnv("BILLING_RELEASE_DAY_OF_MONTH", 1)
	if err != nil {
		return Config{}, err
	}
	dueDay, err := parseIntEnv("BILLING_DUE_DAY_OF_MONTH", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.Billing = contract.BillingSettings{
		Prorata:           prorata,
		ReleaseDayOfMonth: releaseDay,
		DueDayOfMonth:     dueDay,
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseIntListEnv(key string, def []int) ([]int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		val := strings.TrimSpace(part)
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid %s component %q: %w", key, part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
