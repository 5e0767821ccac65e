package config

import (
	"testing"
)

func TestStorageBackendValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "db", want: StorageBackendDB},
		{in: " Redis ", want: StorageBackendRedis},
		{in: "MEMORY", want: StorageBackendMemory},
		{in: "mongo", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		s := StorageConfig{Backend: tc.in}
		err := s.validate()
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for backend %q", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for backend %q: %v", tc.in, err)
		}
		if s.Backend != tc.want {
			t.Fatalf("backend %q normalized to %q, want %q", tc.in, s.Backend, tc.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with defaults: %v", err)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected dev default, got %q", cfg.App.Env)
	}
	if cfg.Admin.Email == "" {
		t.Fatal("admin email default missing")
	}
	if cfg.Checkout.TaxRate != 0.08 {
		t.Fatalf("unexpected tax rate default: %v", cfg.Checkout.TaxRate)
	}
}
