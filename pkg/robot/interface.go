// Package robot provides interfaces and implementations for temi robot control.
//
// This package follows the Interface Segregation Principle (ISP) by defining
// small, focused interfaces that can be composed as needed. Consumers should
// depend only on the interfaces they actually use.
package robot

import "errors"

// ErrBatteryUnavailable is returned by SensorReader.Battery when the robot
// cannot report battery state. Callers treat battery reads as best-effort.
var ErrBatteryUnavailable = errors.New("battery data unavailable")

// Position is the robot's pose as reported by the SDK.
type Position struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Yaw       float64 `json:"yaw"`
	TiltAngle float64 `json:"tiltAngle"`
}

// Battery is the robot's battery state as reported by the SDK.
type Battery struct {
	Level      int  `json:"level"`
	IsCharging bool `json:"isCharging"`
}

// Turner rotates the robot in place. The call queues motion on the robot
// and returns immediately.
type Turner interface {
	Turn(degrees int, speed float64) error
}

// Tilter moves the robot's head to an absolute tilt angle.
type Tilter interface {
	Tilt(angle int, speed float64) error
}

// Driver issues one joystick-style velocity command. A single call moves
// the robot only briefly; duration-based motion requires calling Drive
// repeatedly at a fixed cadence until the motion window ends.
type Driver interface {
	Drive(speedX, speedY float64, smart bool) error
}

// SensorReader reads the robot's position and battery state.
type SensorReader interface {
	Position() (Position, error)
	Battery() (Battery, error)
}

// Actuator is the composite interface for full robot control.
// Use this when you need complete control capabilities.
type Actuator interface {
	Turner
	Tilter
	Driver
	SensorReader
}

// Ensure implementations satisfy Actuator
var (
	_ Actuator = (*BridgeClient)(nil)
	_ Actuator = (*Sim)(nil)
)
