package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type EscrowConfig struct {
	Env           string `yaml:"env" env:"ESCROW_ENV" env-default:"local"`
	GRPCServer    `yaml:"grpc_server"`
	HTTPServer    `yaml:"http_server"`
	EscrowDB      `yaml:"escrow_db"`
	LogConfig     `yaml:"log_config"`
	LedgerService `yaml:"ledger-service"`
	KafkaService  `yaml:"kafka-service"`
	Webhook       `yaml:"webhook"`
	Auth          `yaml:"auth"`
	Escrow        `yaml:"escrow"`
	Arbitration   `yaml:"arbitration"`
	Governance    `yaml:"governance"`
	Workers       `yaml:"workers"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

// HTTPServer отдает /metrics
type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"9090"`
}

type EscrowDB struct {
	// Driver: postgres | memory
	Driver          string        `yaml:"driver" env:"ESCROW_DB_DRIVER" env-default:"postgres"`
	Dsn             string        `yaml:"dsn" env:"ESCROW_DB_DSN"`
	MigrationsPath  string        `yaml:"migrations_path" env:"ESCROW_MIGRATIONS_PATH" env-default:"migrations"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

// LedgerService: local - балансы в базе сервиса, remote - внешний ledger по HTTP
type LedgerService struct {
	Mode    string        `yaml:"mode" env:"LEDGER_MODE" env-default:"local"`
	Host    string        `yaml:"host" env:"LEDGER_HOST"`
	Port    string        `yaml:"port" env:"LEDGER_PORT"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type KafkaService struct {
	Enabled      bool   `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"true"`
	Host         string `yaml:"host" env:"KAFKA_HOST"`
	Port         string `yaml:"port" env:"KAFKA_PORT"`
	StakeGroupID string `yaml:"stake_group_id" env-default:"escrow-service-stakes"`
}

// Webhook - доставка событий callback-ом, когда kafka выключена
type Webhook struct {
	URL     string        `yaml:"url" env:"WEBHOOK_URL"`
	Secret  string        `yaml:"secret" env:"WEBHOOK_SECRET"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"ESCROW_JWT_SECRET"`
	Issuer    string `yaml:"issuer" env-default:"shvark-auth"`
}

type Escrow struct {
	MinAmount uint64 `yaml:"min_amount" env-default:"1000000"`
}

type Arbitration struct {
	Admin              string        `yaml:"admin" env:"ARBITRATION_ADMIN"`
	Treasury           string        `yaml:"treasury" env:"ARBITRATION_TREASURY"`
	DefaultQuorum      uint8         `yaml:"default_quorum" env-default:"2"`
	DisputeFee         uint64        `yaml:"dispute_fee" env-default:"2"`
	PanelTTL           time.Duration `yaml:"panel_ttl" env-default:"336h"`
	LatePenaltyPercent uint16        `yaml:"late_penalty_percent" env-default:"7"`
	AutoJudgeOnQuorum  bool          `yaml:"auto_judge_on_quorum" env-default:"true"`
}

type Governance struct {
	StakeDivisor uint64 `yaml:"stake_divisor" env-default:"1000000"`
}

type Workers struct {
	ProposalSweepInterval time.Duration `yaml:"proposal_sweep_interval" env-default:"30s"`
	AutoResolveInterval   time.Duration `yaml:"auto_resolve_interval" env-default:"1m"`
	OutboxInterval        time.Duration `yaml:"outbox_interval" env-default:"1s"`
	OutboxBatchSize       int           `yaml:"outbox_batch_size" env-default:"100"`
}

func MustLoad() *EscrowConfig {

	// Processing env config variable and file
	configPath := os.Getenv("ESCROW_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ESCROW_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg EscrowConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
