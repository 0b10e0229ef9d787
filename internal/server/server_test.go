package server

import (
	"net/http/httptest"
	"testing"

	"github.com/Paskordnikk/Strekoza/internal/config"
)

func TestHealthRoute(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest("POST", "/api/get_elevation", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("POST", "/profile/calculate", nil)
	resp, _ = s.App.Test(req)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestElevationSourceSelection(t *testing.T) {
	if src := elevationSource(config.Config{SRTMDir: "strm"}, nil); src == nil {
		t.Fatalf("expected local source")
	}
	if src := elevationSource(config.Config{ElevationURL: "https://up.example"}, nil); src == nil {
		t.Fatalf("expected remote source")
	}
}
