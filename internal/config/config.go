package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	Database  Database  `envPrefix:"DATABASE_"`
	Toss      Toss      `envPrefix:"TOSS_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	Kafka     Kafka     `envPrefix:"KAFKA_"`
	SMTP      SMTP      `envPrefix:"SMTP_"`
	Admin     Admin     `envPrefix:"ADMIN_"`
	Widget    Widget    `envPrefix:"WIDGET_"`
	Reconcile Reconcile `envPrefix:"RECONCILE_"`
	Analytics Analytics
	CRM       CRM
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsProduction() bool {
	return e.Name == "production"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver  string `env:"DRIVER" envDefault:"postgres"` // postgres, mysql, sqlite
	URL     string `env:"URL"`
	MaxIdle int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpen int    `env:"MAX_OPEN_CONNS" envDefault:"50"`
}

type Toss struct {
	BaseApiURL    string        `env:"BASE_API_URL" envDefault:"https://api.tosspayments.com"`
	ClientKey     string        `env:"CLIENT_KEY"`
	SecretKey     string        `env:"SECRET_KEY"`
	WebhookSecret string        `env:"WEBHOOK_SECRET"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Redis struct {
	Addr           string        `env:"ADDR"`
	Password       string        `env:"PASSWORD"`
	DB             int           `env:"DB" envDefault:"0"`
	ConfirmLockTTL time.Duration `env:"CONFIRM_LOCK_TTL" envDefault:"1m"`
}

type Kafka struct {
	Brokers      []string      `env:"BROKERS" envSeparator:","`
	Topic        string        `env:"TOPIC" envDefault:"checkout.order-events"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"10ms"`
}

type SMTP struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT" envDefault:"587"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

func (s SMTP) Enabled() bool {
	return s.Host != "" && s.User != "" && s.Password != "" && s.From != ""
}

type Admin struct {
	JWTSecret string `env:"JWT_SECRET"`
}

// Widget drives the checkout page script. The poll values bound how long the
// page waits for the SDK global and for its DOM containers.
type Widget struct {
	SDKURL          string        `env:"SDK_URL" envDefault:"https://js.tosspayments.com/v2/standard"`
	PollAttempts    int           `env:"SDK_POLL_ATTEMPTS" envDefault:"50"`
	PollInterval    time.Duration `env:"SDK_POLL_INTERVAL" envDefault:"100ms"`
	DOMPollAttempts int           `env:"DOM_POLL_ATTEMPTS" envDefault:"5"`
	DOMPollInterval time.Duration `env:"DOM_POLL_INTERVAL" envDefault:"300ms"`
}

type Reconcile struct {
	Interval       time.Duration `env:"INTERVAL" envDefault:"5m"`
	PendingTimeout time.Duration `env:"PENDING_TIMEOUT" envDefault:"30m"`
	AbandonAfter   time.Duration `env:"ABANDON_AFTER" envDefault:"24h"`
	BatchSize      int           `env:"BATCH_SIZE" envDefault:"50"`
}

type Analytics struct {
	MeasurementID string `env:"GA_MEASUREMENT_ID"`
}

type CRM struct {
	APIKey string `env:"CRM_API_KEY"`
}
