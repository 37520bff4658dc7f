package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/temihq/go-temi-rest/pkg/command"
)

// Expected body shapes, echoed back on parse failures so clients can fix
// their requests without reading the docs page.
const (
	turnShape  = `expected {"degrees": number, "speed"?: number}`
	tiltShape  = `expected {"angle": number, "speed"?: number}`
	driveShape = `expected {"speedX": number, "speedY": number, "durationMs"?: int, "smart"?: bool}`
)

// handleTurn decodes and dispatches a turn command.
func (s *Server) handleTurn(c *fiber.Ctx) error {
	cmd := command.DefaultTurn()
	if err := c.BodyParser(&cmd); err != nil {
		return writeResult(c, command.Failure(command.ParseFailure(turnShape)))
	}
	return writeResult(c, s.dispatcher.Turn(cmd))
}

// handleTilt decodes and dispatches a tilt command.
func (s *Server) handleTilt(c *fiber.Ctx) error {
	cmd := command.DefaultTilt()
	if err := c.BodyParser(&cmd); err != nil {
		return writeResult(c, command.Failure(command.ParseFailure(tiltShape)))
	}
	return writeResult(c, s.dispatcher.Tilt(cmd))
}

// handleDrive decodes and dispatches a drive command. The dispatcher
// returns as soon as the background task is started.
func (s *Server) handleDrive(c *fiber.Ctx) error {
	cmd := command.DefaultDrive()
	if err := c.BodyParser(&cmd); err != nil {
		return writeResult(c, command.Failure(command.ParseFailure(driveShape)))
	}
	return writeResult(c, s.dispatcher.Drive(c.UserContext(), cmd))
}

// handleStatus returns position, battery and server info.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return writeResult(c, s.dispatcher.Status())
}

// handleNotFound rejects unknown method+path combinations, listing the
// valid endpoint set.
func (s *Server) handleNotFound(c *fiber.Ctx) error {
	return writeResult(c, command.Failure(command.NotFound(
		"Available endpoints: POST /turn, POST /tilt, POST /drive, GET /status, GET /ws/telemetry, GET /",
	)))
}

// handleDocs serves the HTML documentation page.
func (s *Server) handleDocs(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(docsPage)
}
