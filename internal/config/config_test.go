package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.API.Port)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7 day token ttl, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Upload.MaxBytes != 10*1024*1024 {
		t.Fatalf("expected 10MiB upload limit, got %d", cfg.Upload.MaxBytes)
	}
	if len(cfg.Auth.RegistrationRoles) != 3 {
		t.Fatalf("expected three registration roles, got %v", cfg.Auth.RegistrationRoles)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("expected postgres driver, got %q", cfg.Database.Driver)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_REQUEST_TIMEOUT", "3s")
	t.Setenv("AUTH_REGISTRATION_ROLES", "applicant, recruiter")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("DATABASE_PORT", "3306")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.API.Port)
	}
	if cfg.API.RequestTimeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.API.RequestTimeout)
	}
	if got := cfg.Auth.RegistrationRoles; len(got) != 2 || got[0] != "applicant" || got[1] != "recruiter" {
		t.Fatalf("unexpected registration roles %v", got)
	}
	if cfg.Database.Driver != "mysql" || cfg.Database.Port != 3306 {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_DRIVER", "mongodb")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 3306, Name: "jobs", User: "u", Password: "p", SSLMode: "disable"}

	if got, want := d.DSN(), "host=db port=3306 user=u password=p dbname=jobs sslmode=disable"; got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
	if got, want := d.MySQLDSN(), "u:p@tcp(db:3306)/jobs?charset=utf8mb4&parseTime=True&loc=UTC"; got != want {
		t.Fatalf("MySQLDSN() = %q, want %q", got, want)
	}
}

func TestLoadDatabase_IgnoresStorageSettings(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY_ID", "")
	t.Setenv("POSTGRES_DB", "jobs")

	db, err := LoadDatabase()
	if err != nil {
		t.Fatalf("load database: %v", err)
	}
	if db.Name != "jobs" || db.Port != 5432 {
		t.Fatalf("unexpected database config %+v", db)
	}

	t.Setenv("DATABASE_DRIVER", "oracle")
	if _, err := LoadDatabase(); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
