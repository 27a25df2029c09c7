package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Display.DistanceUnit != "km" {
		t.Errorf("Display.DistanceUnit = %q, want %q", cfg.Display.DistanceUnit, "km")
	}

	// Strava config should be empty by default
	if cfg.Strava.ClientID != "" {
		t.Errorf("Strava.ClientID should be empty, got %q", cfg.Strava.ClientID)
	}
	if cfg.Strava.ClientSecret != "" {
		t.Errorf("Strava.ClientSecret should be empty, got %q", cfg.Strava.ClientSecret)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "valid config",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "abc123secret",
				},
			},
			expectError: false,
		},
		{
			name: "empty client ID",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "",
					ClientSecret: "abc123secret",
				},
			},
			expectError: true,
		},
		{
			name: "placeholder client ID",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "YOUR_CLIENT_ID",
					ClientSecret: "abc123secret",
				},
			},
			expectError: true,
		},
		{
			name: "empty client secret",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "",
				},
			},
			expectError: true,
		},
		{
			name: "invalid distance unit",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "abc123secret",
				},
				Display: DisplayConfig{DistanceUnit: "furlongs"},
			},
			expectError: true,
		},
		{
			name: "miles is a valid distance unit",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "abc123secret",
				},
				Display: DisplayConfig{DistanceUnit: "mi"},
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
