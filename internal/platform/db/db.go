package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const driverName = "mysql"

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type SessionConfig struct {
	Secret string `yaml:"secret"`
}

type BootstrapConfig struct {
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

type Config struct {
	Mode      string          `yaml:"mode"`
	Addr      string          `yaml:"addr"`
	DB        DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
}

// LoadConfig reads the yaml config, then lets the environment override
// credentials so secrets can stay out of the file. A .env file is honored
// when present.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	_ = godotenv.Load()
	overrideStr(&cfg.Session.Secret, "LMS_SESSION_SECRET")
	overrideStr(&cfg.DB.Host, "LMS_DB_HOST")
	overrideStr(&cfg.DB.Username, "LMS_DB_USER")
	overrideStr(&cfg.DB.Password, "LMS_DB_PASSWORD")
	overrideStr(&cfg.DB.DBName, "LMS_DB_NAME")

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("session secret is not set (config or LMS_SESSION_SECRET)")
	}
	return &cfg, nil
}

func overrideStr(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func Connect(c DatabaseConfig) (*sql.DB, error) {
	// clientFoundRows makes RowsAffected count matched rows, so a no-op
	// UPDATE of an existing row is not mistaken for "not found".
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC&clientFoundRows=true",
		c.Username, c.Password, c.Host, c.Port, c.DBName)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Keep the pool well under MySQL's max_connections.
	db.SetMaxOpenConns(80)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
