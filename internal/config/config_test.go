package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "spilno_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("REDIS_DB", "3")
	os.Setenv("IDENTITY_TOKEN_SECRET", "testsecret123456789012345678901234")
	defer func() {
		os.Unsetenv("MONGODB_URI")
		os.Unsetenv("IDENTITY_TOKEN_SECRET")
		os.Unsetenv("REDIS_DB")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.Server.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Server.Port)
	}
	if cfg.Identity.TokenSecret == "" {
		t.Fatalf("expected token secret from env")
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("expected Redis DB 3 from env, got %d", cfg.Redis.DB)
	}
}

func TestLoadConfig_ServiceAccountJSON(t *testing.T) {
	os.Setenv("IDENTITY_SERVICE_ACCOUNT", `{"webApiKey":"web-key-1","tokenSecret":"sa-secret"}`)
	defer os.Unsetenv("IDENTITY_SERVICE_ACCOUNT")
	os.Unsetenv("IDENTITY_WEB_API_KEY")
	os.Unsetenv("IDENTITY_TOKEN_SECRET")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Identity.WebAPIKey != "web-key-1" {
		t.Fatalf("webApiKey not read from service account: %q", cfg.Identity.WebAPIKey)
	}
	if cfg.Identity.TokenSecret != "sa-secret" {
		t.Fatalf("tokenSecret not read from service account: %q", cfg.Identity.TokenSecret)
	}
}
