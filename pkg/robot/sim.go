package robot

import (
	"math"
	"sync"
	"time"
)

// Simulated robot characteristics.
const (
	simMaxLinear  = 0.7  // m/s at full stick, roughly temi's cruise speed
	simMaxAngular = 1.2  // rad/s at full stick
	simStep       = 0.05 // seconds of motion applied per Drive call (one cadence tick)
)

// Sim is an in-process simulated actuator. It integrates drive calls into a
// pose and drains a fake battery over time, so the gateway can run and be
// tested without a robot.
type Sim struct {
	mu        sync.Mutex
	x, y      float64
	yaw       float64 // radians
	tiltAngle float64 // degrees
	level     int
	start     time.Time

	driveCalls int
}

// NewSim creates a simulated robot at the origin with a full battery.
func NewSim() *Sim {
	return &Sim{
		level: 100,
		start: time.Now(),
	}
}

// Turn rotates the simulated robot instantly by the given degrees.
func (s *Sim) Turn(degrees int, speed float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.yaw = normalizeAngle(s.yaw + float64(degrees)*math.Pi/180)
	return nil
}

// Tilt sets the simulated head tilt angle.
func (s *Sim) Tilt(angle int, speed float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiltAngle = float64(angle)
	return nil
}

// Drive applies one cadence tick of skid-steer motion.
// speedX drives forward/backward along the current heading, speedY turns.
func (s *Sim) Drive(speedX, speedY float64, smart bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.driveCalls++

	s.yaw = normalizeAngle(s.yaw + speedY*simMaxAngular*simStep)
	dist := speedX * simMaxLinear * simStep
	s.x += dist * math.Cos(s.yaw)
	s.y += dist * math.Sin(s.yaw)
	return nil
}

// Position returns the simulated pose.
func (s *Sim) Position() (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Position{
		X:         s.x,
		Y:         s.y,
		Yaw:       s.yaw * 180 / math.Pi,
		TiltAngle: s.tiltAngle,
	}, nil
}

// Battery returns the simulated battery, draining ~1% per minute of uptime.
func (s *Sim) Battery() (Battery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drain := int(time.Since(s.start).Minutes())
	level := s.level - drain
	if level < 0 {
		level = 0
	}
	return Battery{Level: level, IsCharging: false}, nil
}

// DriveCalls returns the number of Drive calls received.
func (s *Sim) DriveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driveCalls
}

// normalizeAngle wraps a to (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
