package doctor

import (
	"bytes"
	"strings"
	"testing"
	"totaro-checkout/internal/config"
)

func healthyConfig() *config.Config {
	return &config.Config{
		Environment: config.Environment{Name: "production"},
		BaseURL:     "https://totaro.example",
		Database:    config.Database{Driver: "postgres", URL: "postgres://localhost/checkout"},
		Toss: config.Toss{
			ClientKey:     "live_gck_abc",
			SecretKey:     "live_gsk_abc",
			WebhookSecret: "whsec",
		},
		SMTP:      config.SMTP{Host: "smtp.example", Port: "587", User: "u", Password: "p", From: "billing@totaro.example"},
		Analytics: config.Analytics{MeasurementID: "G-ABC123"},
		CRM:       config.CRM{APIKey: "crm"},
	}
}

func statusOf(t *testing.T, r *Report, name string) Status {
	t.Helper()
	c, ok := r.Find(name)
	if !ok {
		t.Fatalf("Check %s not reported", name)
	}
	return c.Status
}

func TestHealthyConfigPasses(t *testing.T) {
	t.Parallel()

	r := Run(healthyConfig())
	if r.Count(StatusPass) != len(r.Checks) {
		var buf bytes.Buffer
		r.Write(&buf)
		t.Errorf("Expected every check to pass:\n%s", buf.String())
	}
}

func TestKeyChecks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*config.Config)
		check  string
		want   Status
	}{
		{"missing client key", func(c *config.Config) { c.Toss.ClientKey = "" }, "TOSS_CLIENT_KEY", StatusFail},
		{"bad client prefix", func(c *config.Config) { c.Toss.ClientKey = "ck_abc" }, "TOSS_CLIENT_KEY", StatusFail},
		{"missing secret key", func(c *config.Config) { c.Toss.SecretKey = "" }, "TOSS_SECRET_KEY", StatusFail},
		{"bad secret prefix", func(c *config.Config) { c.Toss.SecretKey = "live_ck_oops" }, "TOSS_SECRET_KEY", StatusFail},
		{"mode mismatch", func(c *config.Config) { c.Toss.ClientKey = "test_ck_abc" }, "key mode", StatusFail},
		{"live outside production", func(c *config.Config) { c.Environment.Name = "staging" }, "key mode", StatusWarn},
		{"test keys anywhere", func(c *config.Config) {
			c.Environment.Name = "development"
			c.Toss.ClientKey, c.Toss.SecretKey = "test_ck_a", "test_sk_a"
		}, "key mode", StatusPass},
	}

	for _, tc := range cases {
		cfg := healthyConfig()
		tc.mutate(cfg)
		r := Run(cfg)
		if got := statusOf(t, r, tc.check); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestBaseURLAndOptionalChecks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*config.Config)
		check  string
		want   Status
	}{
		{"missing base url", func(c *config.Config) { c.BaseURL = "" }, "BASE_URL", StatusFail},
		{"relative base url", func(c *config.Config) { c.BaseURL = "/checkout" }, "BASE_URL", StatusFail},
		{"http in production", func(c *config.Config) { c.BaseURL = "http://totaro.example" }, "BASE_URL", StatusWarn},
		{"missing database", func(c *config.Config) { c.Database.URL = "" }, "DATABASE_URL", StatusFail},
		{"bad GA id", func(c *config.Config) { c.Analytics.MeasurementID = "UA-1234" }, "GA_MEASUREMENT_ID", StatusWarn},
		{"no CRM", func(c *config.Config) { c.CRM.APIKey = "" }, "CRM_API_KEY", StatusWarn},
		{"partial SMTP", func(c *config.Config) { c.SMTP.Password = "" }, "SMTP", StatusWarn},
		{"no webhook secret", func(c *config.Config) { c.Toss.WebhookSecret = "" }, "TOSS_WEBHOOK_SECRET", StatusWarn},
	}

	for _, tc := range cases {
		cfg := healthyConfig()
		tc.mutate(cfg)
		if got := statusOf(t, Run(cfg), tc.check); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestWarningsDoNotFail(t *testing.T) {
	t.Parallel()

	cfg := healthyConfig()
	cfg.CRM.APIKey = ""
	cfg.Toss.WebhookSecret = ""
	if Run(cfg).Failed() {
		t.Error("Warnings alone should not fail the report")
	}

	cfg.Database.URL = ""
	if !Run(cfg).Failed() {
		t.Error("Expected a failing report")
	}
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	cfg := healthyConfig()
	cfg.Toss.SecretKey = ""
	var buf bytes.Buffer
	Run(cfg).Write(&buf)
	if !strings.Contains(buf.String(), "✗ TOSS_SECRET_KEY") || !strings.Contains(buf.String(), "1 failed") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}
}
