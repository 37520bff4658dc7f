package robot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/temihq/go-temi-rest/internal/httpc"
)

// BridgeClient implements Actuator against the on-robot SDK bridge daemon.
// The bridge wraps the vendor SDK (turnBy, tiltAngle, skidJoy, getPosition,
// batteryData) behind a small local HTTP API.
type BridgeClient struct {
	baseURL string
	client  *http.Client
}

// NewBridgeClient creates an actuator client for the bridge at baseURL,
// e.g. "http://127.0.0.1:8038".
func NewBridgeClient(baseURL string) *BridgeClient {
	return &BridgeClient{
		baseURL: baseURL,
		client:  httpc.Client,
	}
}

// Turn queues an in-place rotation on the robot.
func (b *BridgeClient) Turn(degrees int, speed float64) error {
	return b.post("/sdk/turnBy", map[string]any{
		"degrees": degrees,
		"speed":   speed,
	})
}

// Tilt moves the robot's head to an absolute tilt angle.
func (b *BridgeClient) Tilt(angle int, speed float64) error {
	return b.post("/sdk/tiltAngle", map[string]any{
		"angle": angle,
		"speed": speed,
	})
}

// Drive issues one skidJoy velocity command.
func (b *BridgeClient) Drive(speedX, speedY float64, smart bool) error {
	return b.post("/sdk/skidJoy", map[string]any{
		"x":     speedX,
		"y":     speedY,
		"smart": smart,
	})
}

// Position reads the robot's current pose.
func (b *BridgeClient) Position() (Position, error) {
	var pos Position
	if err := b.get("/sdk/getPosition", &pos); err != nil {
		return Position{}, err
	}
	return pos, nil
}

// Battery reads the robot's battery state. Returns ErrBatteryUnavailable
// when the bridge has no battery data (the SDK reports it asynchronously
// and may not have a reading yet).
func (b *BridgeClient) Battery() (Battery, error) {
	resp, err := b.client.Get(b.baseURL + "/sdk/batteryData")
	if err != nil {
		return Battery{}, fmt.Errorf("battery request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		return Battery{}, ErrBatteryUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return Battery{}, fmt.Errorf("battery request returned %s", resp.Status)
	}

	var bat Battery
	if err := json.NewDecoder(resp.Body).Decode(&bat); err != nil {
		return Battery{}, fmt.Errorf("failed to decode battery data: %w", err)
	}
	return bat, nil
}

// post sends a command payload to the bridge.
func (b *BridgeClient) post(path string, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", path, err)
	}

	resp, err := b.client.Post(b.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("bridge request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge request %s returned %s", path, resp.Status)
	}
	return nil
}

// get fetches a JSON reading from the bridge into out.
func (b *BridgeClient) get(path string, out any) error {
	resp, err := b.client.Get(b.baseURL + path)
	if err != nil {
		return fmt.Errorf("bridge request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge request %s returned %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
