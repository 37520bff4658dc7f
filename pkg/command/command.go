// Package command validates decoded robot commands and dispatches them to an
// actuator. Turn and tilt execute synchronously; drive commands run in a
// tracked background task that re-issues the actuator call at a fixed
// cadence for the requested duration.
package command

// Command parameter bounds. These mirror the limits the robot SDK enforces
// physically; anything outside is rejected before touching the actuator.
const (
	MinTurnDegrees = -360.0
	MaxTurnDegrees = 360.0

	MinTiltAngle = -25.0
	MaxTiltAngle = 55.0

	MaxSpeed = 10.0 // speed is (0, MaxSpeed]

	MaxDriveSpeed  = 1.0 // speedX/speedY are [-1, 1]
	MaxDurationMs  = 10000
	DefaultTurnSpd = 1.0
	DefaultTiltSpd = 1.0
	DefaultDriveMs = 500
)

// TurnCommand rotates the robot in place by a relative number of degrees.
type TurnCommand struct {
	Degrees float64 `json:"degrees"`
	Speed   float64 `json:"speed"`
}

// DefaultTurn returns a TurnCommand with default speed applied.
// Decode request bodies into this so absent fields keep their defaults.
func DefaultTurn() TurnCommand {
	return TurnCommand{Speed: DefaultTurnSpd}
}

// Validate checks parameter bounds, returning the first violation.
func (c TurnCommand) Validate() *Error {
	if c.Degrees < MinTurnDegrees || c.Degrees > MaxTurnDegrees {
		return Invalid("Invalid degrees", "Turn degrees must be between -360 and 360")
	}
	return validateSpeed(c.Speed)
}

// TiltCommand moves the robot's head to an absolute tilt angle.
type TiltCommand struct {
	Angle float64 `json:"angle"`
	Speed float64 `json:"speed"`
}

// DefaultTilt returns a TiltCommand with default speed applied.
func DefaultTilt() TiltCommand {
	return TiltCommand{Speed: DefaultTiltSpd}
}

// Validate checks parameter bounds, returning the first violation.
func (c TiltCommand) Validate() *Error {
	if c.Angle < MinTiltAngle || c.Angle > MaxTiltAngle {
		return Invalid("Invalid angle", "Tilt angle must be between -25 and 55 degrees")
	}
	return validateSpeed(c.Speed)
}

// DriveCommand is a time-extended joystick motion: the actuator's skid
// call is re-issued every tick until DurationMs has elapsed.
type DriveCommand struct {
	SpeedX     float64 `json:"speedX"`
	SpeedY     float64 `json:"speedY"`
	DurationMs int     `json:"durationMs"`
	Smart      bool    `json:"smart"`
}

// DefaultDrive returns a DriveCommand with default duration and smart mode.
func DefaultDrive() DriveCommand {
	return DriveCommand{DurationMs: DefaultDriveMs, Smart: true}
}

// Validate checks parameter bounds, returning the first violation.
func (c DriveCommand) Validate() *Error {
	if c.SpeedX < -MaxDriveSpeed || c.SpeedX > MaxDriveSpeed {
		return Invalid("Invalid speedX", "speedX must be between -1 and 1")
	}
	if c.SpeedY < -MaxDriveSpeed || c.SpeedY > MaxDriveSpeed {
		return Invalid("Invalid speedY", "speedY must be between -1 and 1")
	}
	if c.DurationMs <= 0 || c.DurationMs > MaxDurationMs {
		return Invalid("Invalid durationMs", "Duration must be greater than 0 and at most 10000 milliseconds")
	}
	return nil
}

// validateSpeed checks the shared speed bound (0, 10].
func validateSpeed(speed float64) *Error {
	if speed <= 0 || speed > MaxSpeed {
		return Invalid("Invalid speed", "Speed must be greater than 0 and at most 10")
	}
	return nil
}
