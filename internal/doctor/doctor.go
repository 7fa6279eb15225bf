// Package doctor checks a checkout deployment's environment before it serves
// real customers.
package doctor

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"totaro-checkout/internal/config"
)

type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

type Check struct {
	Name    string
	Status  Status
	Message string
}

type Report struct {
	Checks []Check
}

func (r *Report) add(name string, status Status, format string, args ...any) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) Count(status Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == status {
			n++
		}
	}
	return n
}

func (r *Report) Failed() bool {
	return r.Count(StatusFail) > 0
}

func (r *Report) Find(name string) (Check, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

var marks = map[Status]string{StatusPass: "✓", StatusWarn: "!", StatusFail: "✗"}

func (r *Report) Write(w io.Writer) {
	for _, c := range r.Checks {
		fmt.Fprintf(w, "  %s %-22s %s\n", marks[c.Status], c.Name, c.Message)
	}
	fmt.Fprintf(w, "\nResults: %d passed, %d warnings, %d failed\n",
		r.Count(StatusPass), r.Count(StatusWarn), r.Count(StatusFail))
}

var (
	clientKeyPrefixes = []string{"test_ck_", "live_ck_", "test_gck_", "live_gck_"}
	secretKeyPrefixes = []string{"test_sk_", "live_sk_", "test_gsk_", "live_gsk_"}
	measurementID     = regexp.MustCompile(`^G-[A-Z0-9]+$`)
)

func hasPrefix(v string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

func keyMode(key string) string {
	switch {
	case strings.HasPrefix(key, "live_"):
		return "live"
	case strings.HasPrefix(key, "test_"):
		return "test"
	}
	return ""
}

// Run evaluates every check against cfg.
func Run(cfg *config.Config) *Report {
	r := &Report{}
	checkKeys(r, cfg)
	checkBaseURL(r, cfg)
	checkOptional(r, cfg)
	return r
}

func checkKey(r *Report, name, value string, prefixes []string) bool {
	switch {
	case value == "":
		r.add(name, StatusFail, "not set")
		return false
	case !hasPrefix(value, prefixes):
		r.add(name, StatusFail, "must start with one of %s", strings.Join(prefixes, ", "))
		return false
	}
	r.add(name, StatusPass, "%s key", keyMode(value))
	return true
}

func checkKeys(r *Report, cfg *config.Config) {
	clientOK := checkKey(r, "TOSS_CLIENT_KEY", cfg.Toss.ClientKey, clientKeyPrefixes)
	secretOK := checkKey(r, "TOSS_SECRET_KEY", cfg.Toss.SecretKey, secretKeyPrefixes)
	if !clientOK || !secretOK {
		return
	}

	clientMode, secretMode := keyMode(cfg.Toss.ClientKey), keyMode(cfg.Toss.SecretKey)
	if clientMode != secretMode {
		r.add("key mode", StatusFail, "client key is %s but secret key is %s", clientMode, secretMode)
		return
	}
	if clientMode == "live" && !cfg.Environment.IsProduction() {
		r.add("key mode", StatusWarn, "live keys in %s environment", cfg.Environment.Name)
		return
	}
	r.add("key mode", StatusPass, "%s keys in %s", clientMode, cfg.Environment.Name)
}

func checkBaseURL(r *Report, cfg *config.Config) {
	if cfg.BaseURL == "" {
		r.add("BASE_URL", StatusFail, "not set")
		return
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		r.add("BASE_URL", StatusFail, "%q is not an absolute URL", cfg.BaseURL)
		return
	}
	if u.Scheme == "http" && cfg.Environment.IsProduction() {
		r.add("BASE_URL", StatusWarn, "uses http in production")
		return
	}
	r.add("BASE_URL", StatusPass, "%s", cfg.BaseURL)
}

func checkOptional(r *Report, cfg *config.Config) {
	if cfg.Database.URL == "" {
		r.add("DATABASE_URL", StatusFail, "not set")
	} else {
		r.add("DATABASE_URL", StatusPass, "%s driver", cfg.Database.Driver)
	}

	switch id := cfg.Analytics.MeasurementID; {
	case id == "":
		r.add("GA_MEASUREMENT_ID", StatusWarn, "not set, analytics disabled")
	case !measurementID.MatchString(id):
		r.add("GA_MEASUREMENT_ID", StatusWarn, "%q does not look like G-XXXXXXX", id)
	default:
		r.add("GA_MEASUREMENT_ID", StatusPass, "%s", id)
	}

	if cfg.CRM.APIKey == "" {
		r.add("CRM_API_KEY", StatusWarn, "not set, leads are not synced")
	} else {
		r.add("CRM_API_KEY", StatusPass, "set")
	}

	smtp := cfg.SMTP
	set := 0
	for _, v := range []string{smtp.Host, smtp.User, smtp.Password, smtp.From} {
		if v != "" {
			set++
		}
	}
	switch set {
	case 0:
		r.add("SMTP", StatusWarn, "not configured, receipts are not sent")
	case 4:
		r.add("SMTP", StatusPass, "%s:%s", smtp.Host, smtp.Port)
	default:
		r.add("SMTP", StatusWarn, "partially configured, set SMTP_HOST, SMTP_USER, SMTP_PASSWORD and SMTP_FROM")
	}

	if cfg.Toss.WebhookSecret == "" {
		r.add("TOSS_WEBHOOK_SECRET", StatusWarn, "not set, webhook signatures are not verified")
	} else {
		r.add("TOSS_WEBHOOK_SECRET", StatusPass, "set")
	}
}
