package redis

import (
	"context"
	"os"
	"testing"
	"time"
)

// getTestConfig returns config for testing
func getTestConfig() *Config {
	cfg := DefaultConfig()

	if host := os.Getenv("TEST_REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	if password := os.Getenv("TEST_REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}

	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Host != "localhost" {
		t.Errorf("Expected host 'localhost', got '%s'", cfg.Host)
	}
	if cfg.Port != 6379 {
		t.Errorf("Expected port 6379, got %d", cfg.Port)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("Expected max retries 3, got %d", cfg.MaxRetries)
	}
}

func TestConfig_Addr(t *testing.T) {
	cfg := &Config{Host: "redis.internal", Port: 6380}

	if got := cfg.Addr(); got != "redis.internal:6380" {
		t.Errorf("Expected 'redis.internal:6380', got '%s'", got)
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cfg := &Config{
		Host:          "nonexistent-host-for-testing",
		Port:          6379,
		DialTimeout:   500 * time.Millisecond,
		MaxRetries:    0,
		RetryInterval: time.Millisecond,
	}

	if _, err := NewClient(ctx, cfg); err == nil {
		t.Error("Expected error for unreachable host, got nil")
	}
}

func TestNewClient_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, getTestConfig())
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if err := client.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}

func TestClient_BasicOperations_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, getTestConfig())
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	key := "test:basic:ops"
	defer client.Del(ctx, key)

	if err := client.Set(ctx, key, "value", time.Minute).Err(); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := client.Get(ctx, key).Result()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "value" {
		t.Errorf("Expected 'value', got '%s'", got)
	}

	// SetNX must not overwrite an existing key
	ok, err := client.SetNX(ctx, key, "other", time.Minute).Result()
	if err != nil {
		t.Fatalf("SetNX failed: %v", err)
	}
	if ok {
		t.Error("SetNX overwrote an existing key")
	}

	n, err := client.Exists(ctx, key).Result()
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected key to exist, got %d", n)
	}
}
