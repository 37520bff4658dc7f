package robot

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBridgeClient_Turn(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sdk/turnBy" {
			t.Errorf("path: got %s, want /sdk/turnBy", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewBridgeClient(srv.URL)
	if err := c.Turn(90, 1.0); err != nil {
		t.Fatalf("Turn: %v", err)
	}

	if got["degrees"] != float64(90) {
		t.Errorf("degrees: got %v, want 90", got["degrees"])
	}
	if got["speed"] != 1.0 {
		t.Errorf("speed: got %v, want 1.0", got["speed"])
	}
}

func TestBridgeClient_TurnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewBridgeClient(srv.URL)
	if err := c.Turn(90, 1.0); err == nil {
		t.Error("expected error on 500 from bridge")
	}
}

func TestBridgeClient_Position(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sdk/getPosition" {
			t.Errorf("path: got %s, want /sdk/getPosition", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Position{X: 1.5, Y: -0.5, Yaw: 45, TiltAngle: 10})
	}))
	defer srv.Close()

	c := NewBridgeClient(srv.URL)
	pos, err := c.Position()
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos.X != 1.5 || pos.Y != -0.5 || pos.Yaw != 45 || pos.TiltAngle != 10 {
		t.Errorf("unexpected position: %+v", pos)
	}
}

func TestBridgeClient_BatteryUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewBridgeClient(srv.URL)
	_, err := c.Battery()
	if err != ErrBatteryUnavailable {
		t.Errorf("got %v, want ErrBatteryUnavailable", err)
	}
}

func TestBridgeClient_Battery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Battery{Level: 87, IsCharging: true})
	}))
	defer srv.Close()

	c := NewBridgeClient(srv.URL)
	bat, err := c.Battery()
	if err != nil {
		t.Fatalf("Battery: %v", err)
	}
	if bat.Level != 87 || !bat.IsCharging {
		t.Errorf("unexpected battery: %+v", bat)
	}
}
