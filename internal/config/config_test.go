package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(map[string]string{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.HTTP.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.HTTP.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Expected driver 'postgres', got '%s'", cfg.Database.Driver)
	}
	if cfg.Toss.BaseApiURL != "https://api.tosspayments.com" {
		t.Errorf("Unexpected toss base url '%s'", cfg.Toss.BaseApiURL)
	}
	if cfg.Widget.PollAttempts != 50 || cfg.Widget.PollInterval != 100*time.Millisecond {
		t.Errorf("Unexpected widget poll defaults %d x %s", cfg.Widget.PollAttempts, cfg.Widget.PollInterval)
	}
	if cfg.Kafka.BatchTimeout != 10*time.Millisecond {
		t.Errorf("Expected kafka batch timeout 10ms, got %s", cfg.Kafka.BatchTimeout)
	}
	if cfg.Environment.IsProduction() {
		t.Error("Expected development environment by default")
	}
	if cfg.SMTP.Enabled() {
		t.Error("Expected SMTP to be disabled without credentials")
	}
}

func TestParsePrefixedValues(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(map[string]string{
		"ENVIRONMENT":        "production",
		"TOSS_SECRET_KEY":    "test_sk_abc",
		"TOSS_CLIENT_KEY":    "test_ck_abc",
		"KAFKA_BROKERS":      "k1:9092,k2:9092",
		"RECONCILE_INTERVAL": "0s",
		"DATABASE_DRIVER":    "sqlite",
		"DATABASE_URL":       "file::memory:",
		"GA_MEASUREMENT_ID":  "G-ABC123",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !cfg.Environment.IsProduction() {
		t.Error("Expected production environment")
	}
	if cfg.Toss.SecretKey != "test_sk_abc" || cfg.Toss.ClientKey != "test_ck_abc" {
		t.Errorf("Toss keys not parsed: %+v", cfg.Toss)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Expected two brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Reconcile.Interval != 0 {
		t.Errorf("Expected reconcile disabled, got %s", cfg.Reconcile.Interval)
	}
	if cfg.Analytics.MeasurementID != "G-ABC123" {
		t.Errorf("Expected measurement id, got '%s'", cfg.Analytics.MeasurementID)
	}
}
