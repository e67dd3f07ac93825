package discovery

import (
	"testing"

	"learning-service/internal/config"
)

func TestRegistration(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "9350",
			ServiceName:    "learning-service",
			ServiceAddress: "learning-service",
			ServiceID:      "learning-service-1",
		},
		Consul: config.ConsulConfig{ConsulAddress: "127.0.0.1:8500"},
	}

	registry, err := NewServiceRegistry(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	registration, err := registry.Registration()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if registration.Port != 9350 || registration.ID != "learning-service-1" {
		t.Errorf("Unexpected registration %+v", registration)
	}
	if registration.Check.HTTP != "http://learning-service:9350/health" {
		t.Errorf("Unexpected health check %q", registration.Check.HTTP)
	}
}

func TestRegistration_InvalidPort(t *testing.T) {
	registry, err := NewServiceRegistry(&config.Config{Server: config.ServerConfig{Port: "http"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := registry.Registration(); err == nil {
		t.Error("Expected invalid port to be rejected")
	}
}
