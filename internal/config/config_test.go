package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "JWT_SECRET", "JWT_EXPIRE_HOURS", "PREVENT_DOUBLE_BOOKING", "CORS_ALLOWED_ORIGINS", "CLIENT_DOMAIN", "BCRYPT_COST", "TRUST_PROXY_HEADERS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want 8080", cfg.Port)
	}
	if cfg.TokenTTL() != 24*time.Hour {
		t.Errorf("TokenTTL: got %v, want 24h", cfg.TokenTTL())
	}
	if !cfg.PreventDoubleBooking {
		t.Error("PreventDoubleBooking should default to true")
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost: got %d, want 10", cfg.BcryptCost)
	}
	if cfg.TrustProxyHeaders {
		t.Error("TrustProxyHeaders should default to false")
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Errorf("CORSAllowedOrigins: got %v, want nil", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRE_HOURS", "2")
	t.Setenv("PREVENT_DOUBLE_BOOKING", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("CLIENT_DOMAIN", " https://app.example.com , ,http://localhost:5173")

	cfg := Load()
	if cfg.TokenTTL() != 2*time.Hour {
		t.Errorf("TokenTTL: got %v, want 2h", cfg.TokenTTL())
	}
	if cfg.PreventDoubleBooking {
		t.Error("PreventDoubleBooking should be false")
	}
	want := []string{"https://app.example.com", "http://localhost:5173"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins: got %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Errorf("CORSAllowedOrigins[%d]: got %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"dev with default secret", Config{Env: "dev", JWTSecret: DefaultJWTSecret}, false},
		{"prod with default secret", Config{Env: "prod", JWTSecret: DefaultJWTSecret}, true},
		{"prod with empty secret", Config{Env: "prod"}, true},
		{"prod with real secret", Config{Env: "prod", JWTSecret: "s3cr3t-from-vault"}, false},
		{"half tls config", Config{Env: "dev", JWTSecret: "x", TLSCertFile: "cert.pem"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseURL_EscapesPassword(t *testing.T) {
	cfg := Config{DBUser: "app", DBPass: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "staybook"}
	want := "postgres://app:p%40ss%2Fword@db:5432/staybook?sslmode=disable"
	if got := cfg.DatabaseURL(); got != want {
		t.Errorf("DatabaseURL: got %q, want %q", got, want)
	}
}
