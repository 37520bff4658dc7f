package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/temihq/go-temi-rest/pkg/robot"
)

// mockActuator records all commands for testing
type mockActuator struct {
	mu         sync.Mutex
	turnCalls  []struct {
		degrees int
		speed   float64
	}
	tiltCalls []struct {
		angle int
		speed float64
	}
	driveCalls []struct {
		x, y  float64
		smart bool
	}

	turnErr    error
	driveErr   error
	batteryErr error
	posErr     error
}

func (m *mockActuator) Turn(degrees int, speed float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnCalls = append(m.turnCalls, struct {
		degrees int
		speed   float64
	}{degrees, speed})
	return m.turnErr
}

func (m *mockActuator) Tilt(angle int, speed float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiltCalls = append(m.tiltCalls, struct {
		angle int
		speed float64
	}{angle, speed})
	return nil
}

func (m *mockActuator) Drive(x, y float64, smart bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.driveCalls = append(m.driveCalls, struct {
		x, y  float64
		smart bool
	}{x, y, smart})
	return m.driveErr
}

func (m *mockActuator) Position() (robot.Position, error) {
	if m.posErr != nil {
		return robot.Position{}, m.posErr
	}
	return robot.Position{X: 1, Y: 2, Yaw: 45, TiltAngle: 10}, nil
}

func (m *mockActuator) Battery() (robot.Battery, error) {
	if m.batteryErr != nil {
		return robot.Battery{}, m.batteryErr
	}
	return robot.Battery{Level: 80, IsCharging: true}, nil
}

func (m *mockActuator) driveCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.driveCalls)
}

func newTestDispatcher(m *mockActuator) *Dispatcher {
	return NewDispatcher(m, "temi-rest", "test")
}

func TestDispatcher_Turn(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)

	res := d.Turn(TurnCommand{Degrees: 90, Speed: 1.0})

	if !res.OK {
		t.Fatalf("Turn failed: %v", res.Err)
	}
	if res.Message != "Turn command executed successfully" {
		t.Errorf("Message: got %q", res.Message)
	}
	if len(mock.turnCalls) != 1 {
		t.Fatalf("expected 1 actuator call, got %d", len(mock.turnCalls))
	}
	if mock.turnCalls[0].degrees != 90 || mock.turnCalls[0].speed != 1.0 {
		t.Errorf("actuator call: got %+v", mock.turnCalls[0])
	}
}

func TestDispatcher_TurnRoundsDegrees(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)

	d.Turn(TurnCommand{Degrees: 89.6, Speed: 1.0})

	if mock.turnCalls[0].degrees != 90 {
		t.Errorf("degrees: got %d, want 90 (rounded)", mock.turnCalls[0].degrees)
	}
}

func TestDispatcher_TurnInvalid(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)

	res := d.Turn(TurnCommand{Degrees: 400, Speed: 1.0})

	if res.OK {
		t.Fatal("expected failure for out-of-range degrees")
	}
	if res.Err.Code != CodeValidation {
		t.Errorf("Code: got %q, want validation", res.Err.Code)
	}
	// No partially-valid command may reach the actuator
	if len(mock.turnCalls) != 0 {
		t.Errorf("actuator called %d times for invalid command", len(mock.turnCalls))
	}
}

func TestDispatcher_TurnActuatorError(t *testing.T) {
	mock := &mockActuator{turnErr: errors.New("sdk fault")}
	d := newTestDispatcher(mock)

	res := d.Turn(TurnCommand{Degrees: 90, Speed: 1.0})

	if res.OK {
		t.Fatal("expected failure when actuator errors")
	}
	if res.Err.Code != CodeActuator {
		t.Errorf("Code: got %q, want actuator", res.Err.Code)
	}
}

func TestDispatcher_Tilt(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)

	res := d.Tilt(TiltCommand{Angle: 35, Speed: 2.0})

	if !res.OK {
		t.Fatalf("Tilt failed: %v", res.Err)
	}
	if len(mock.tiltCalls) != 1 || mock.tiltCalls[0].angle != 35 {
		t.Errorf("actuator calls: %+v", mock.tiltCalls)
	}
}

func TestDispatcher_TiltInvalidAngle(t *testing.T) {
	d := newTestDispatcher(&mockActuator{})

	res := d.Tilt(TiltCommand{Angle: 100, Speed: 1.0})

	if res.OK {
		t.Fatal("expected failure")
	}
	if res.Err.Message != "Invalid angle" {
		t.Errorf("Message: got %q, want Invalid angle", res.Err.Message)
	}
	if res.Err.Details != "Tilt angle must be between -25 and 55 degrees" {
		t.Errorf("Details: got %q", res.Err.Details)
	}
}

func TestDispatcher_DriveReturnsImmediately(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)
	defer d.Close()

	start := time.Now()
	res := d.Drive(context.Background(), DriveCommand{SpeedX: 0.5, DurationMs: 2000, Smart: true})
	elapsed := time.Since(start)

	if !res.OK {
		t.Fatalf("Drive failed: %v", res.Err)
	}
	if res.Message != "Drive command started" {
		t.Errorf("Message: got %q", res.Message)
	}
	if elapsed > 200*time.Millisecond {
		t.Errorf("Drive blocked for %v, must return well before the 2s duration", elapsed)
	}

	data, ok := res.Data.(driveStarted)
	if !ok {
		t.Fatalf("Data: got %T, want driveStarted", res.Data)
	}
	if data.TaskID == "" {
		t.Error("TaskID should not be empty")
	}
}

func TestDispatcher_DriveCadence(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)
	defer d.Close()

	res := d.Drive(context.Background(), DriveCommand{SpeedX: 0.5, SpeedY: 0, DurationMs: 500, Smart: true})
	if !res.OK {
		t.Fatalf("Drive failed: %v", res.Err)
	}

	// Wait for the task to finish plus slack
	time.Sleep(700 * time.Millisecond)

	// 500ms at 50ms cadence: one immediate call plus ~9 ticks
	count := mock.driveCallCount()
	if count < 9 || count > 11 {
		t.Errorf("expected 9-11 drive calls over 500ms, got %d", count)
	}

	if _, ok := d.ActiveDrive(); ok {
		t.Error("drive task still registered after duration elapsed")
	}

	// Task must not issue calls after its window
	time.Sleep(150 * time.Millisecond)
	if after := mock.driveCallCount(); after != count {
		t.Errorf("drive calls continued after duration: %d -> %d", count, after)
	}
}

func TestDispatcher_DriveLastWins(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)
	defer d.Close()

	res1 := d.Drive(context.Background(), DriveCommand{SpeedX: 1.0, DurationMs: 5000, Smart: true})
	if !res1.OK {
		t.Fatalf("first Drive failed: %v", res1.Err)
	}
	first, ok := d.ActiveDrive()
	if !ok {
		t.Fatal("no active drive after first command")
	}

	res2 := d.Drive(context.Background(), DriveCommand{SpeedX: -1.0, DurationMs: 300, Smart: true})
	if !res2.OK {
		t.Fatalf("second Drive failed: %v", res2.Err)
	}

	second, ok := d.ActiveDrive()
	if !ok {
		t.Fatal("no active drive after second command")
	}
	if second.ID == first.ID {
		t.Error("second drive did not replace the first")
	}

	// After the second task's window, nothing should be issuing calls:
	// the first (5s) task was cancelled by the replacement.
	time.Sleep(500 * time.Millisecond)
	count := mock.driveCallCount()
	time.Sleep(200 * time.Millisecond)
	if after := mock.driveCallCount(); after != count {
		t.Errorf("calls continued after both windows: %d -> %d", count, after)
	}
}

func TestDispatcher_CloseStopsDrive(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)

	d.Drive(context.Background(), DriveCommand{SpeedX: 0.5, DurationMs: 10000, Smart: true})

	time.Sleep(100 * time.Millisecond)
	d.Close()

	count := mock.driveCallCount()
	time.Sleep(150 * time.Millisecond)
	if after := mock.driveCallCount(); after != count {
		t.Errorf("drive calls continued after Close: %d -> %d", count, after)
	}
}

func TestDispatcher_DriveActuatorErrorsNotSurfaced(t *testing.T) {
	mock := &mockActuator{driveErr: errors.New("sdk fault")}
	d := newTestDispatcher(mock)
	defer d.Close()

	res := d.Drive(context.Background(), DriveCommand{SpeedX: 0.5, DurationMs: 200, Smart: true})

	// The response already returned as started; failures are only logged
	if !res.OK {
		t.Fatalf("Drive should succeed even if the actuator later fails: %v", res.Err)
	}
	time.Sleep(300 * time.Millisecond)
}

func TestDispatcher_Status(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)

	res := d.Status()

	if !res.OK {
		t.Fatalf("Status failed: %v", res.Err)
	}
	data, ok := res.Data.(StatusData)
	if !ok {
		t.Fatalf("Data: got %T, want StatusData", res.Data)
	}
	if data.Position.X != 1 || data.Position.Yaw != 45 {
		t.Errorf("Position: %+v", data.Position)
	}
	if data.Battery.Level != 80 || !data.Battery.IsCharging {
		t.Errorf("Battery: %+v", data.Battery)
	}
	if data.ServerInfo.Name != "temi-rest" {
		t.Errorf("ServerInfo.Name: got %q", data.ServerInfo.Name)
	}
}

func TestDispatcher_StatusBatteryUnavailable(t *testing.T) {
	mock := &mockActuator{batteryErr: robot.ErrBatteryUnavailable}
	d := newTestDispatcher(mock)

	res := d.Status()

	// Best-effort: the request must not fail on a missing battery reading
	if !res.OK {
		t.Fatalf("Status failed: %v", res.Err)
	}
	data := res.Data.(StatusData)
	if data.Battery.Level != -1 {
		t.Errorf("Battery.Level: got %d, want -1", data.Battery.Level)
	}
	if data.Battery.IsCharging {
		t.Error("Battery.IsCharging: got true, want false")
	}
}

func TestDispatcher_StatusPositionError(t *testing.T) {
	mock := &mockActuator{posErr: errors.New("sdk fault")}
	d := newTestDispatcher(mock)

	res := d.Status()

	if res.OK {
		t.Fatal("expected failure when position read fails")
	}
	if res.Err.Code != CodeActuator {
		t.Errorf("Code: got %q, want actuator", res.Err.Code)
	}
}

func TestDispatcher_StatusReportsActiveDrive(t *testing.T) {
	mock := &mockActuator{}
	d := newTestDispatcher(mock)
	defer d.Close()

	d.Drive(context.Background(), DriveCommand{SpeedX: 0.5, DurationMs: 5000, Smart: true})

	res := d.Status()
	data := res.Data.(StatusData)
	if data.ServerInfo.ActiveDrive == "" {
		t.Error("ActiveDrive should carry the running task ID")
	}
}
