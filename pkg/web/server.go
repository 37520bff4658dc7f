// Package web is the HTTP-facing gateway: it routes requests, decodes JSON
// bodies, delegates to the command dispatcher, and serializes results.
// Every response except the root documentation page is valid JSON, so
// machine clients can always parse what they get back.
package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/temihq/go-temi-rest/internal/log"
	"github.com/temihq/go-temi-rest/pkg/command"
	"github.com/temihq/go-temi-rest/pkg/hub"
)

// telemetryPeriod is how often the telemetry sampler pushes a status
// snapshot to websocket clients.
const telemetryPeriod = time.Second

// Server is the REST gateway over the command dispatcher. It is stateless
// between requests apart from the dispatcher reference and the telemetry
// hub.
type Server struct {
	app        *fiber.App
	dispatcher *command.Dispatcher
	telemetry  *hub.Hub
	stop       chan struct{}
}

// NewServer creates the gateway around the given dispatcher.
func NewServer(dispatcher *command.Dispatcher, debug bool) *Server {
	s := &Server{
		dispatcher: dispatcher,
		telemetry:  hub.New("telemetry"),
		stop:       make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "temi-rest",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	// A fault in one request must never take down the serving process
	app.Use(recover.New())
	app.Use(cors.New())
	if debug {
		app.Use(logger.New())
	}

	app.Get("/", s.handleDocs)
	app.Post("/turn", s.handleTurn)
	app.Post("/tilt", s.handleTilt)
	app.Post("/drive", s.handleDrive)
	app.Get("/status", s.handleStatus)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))

	// Everything else is an unknown route
	app.Use(s.handleNotFound)

	s.app = app
	return s
}

// Start begins serving on addr. Blocks until Shutdown is called.
func (s *Server) Start(addr string) error {
	go s.telemetry.Run()
	go s.sampleTelemetry()
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server and the telemetry sampler.
func (s *Server) Shutdown(deadline time.Duration) error {
	close(s.stop)
	s.telemetry.Stop()
	return s.app.ShutdownWithTimeout(deadline)
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// sampleTelemetry polls the dispatcher and pushes status snapshots to
// websocket clients while at least one is connected.
func (s *Server) sampleTelemetry() {
	ticker := time.NewTicker(telemetryPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.telemetry.ClientCount() == 0 {
				continue
			}
			res := s.dispatcher.Status()
			if !res.OK {
				continue
			}
			if err := s.telemetry.BroadcastJSON(res.Data); err != nil {
				log.Warn("telemetry broadcast failed", "err", err)
			}
		}
	}
}

// handleTelemetryWS registers a websocket client with the telemetry hub
// and blocks until the connection closes.
func (s *Server) handleTelemetryWS(c *websocket.Conn) {
	client := hub.NewClient(s.telemetry, c)
	client.Run()
}

// successBody is the envelope for 2xx responses.
type successBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// errorBody is the envelope for all non-2xx JSON responses.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor maps a command error code to an HTTP status.
func statusFor(code command.Code) int {
	switch code {
	case command.CodeValidation, command.CodeParse:
		return fiber.StatusBadRequest
	case command.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// writeResult serializes a dispatcher result into the response envelope.
func writeResult(c *fiber.Ctx, res command.Result) error {
	if res.OK {
		return c.JSON(successBody{Success: true, Message: res.Message, Data: res.Data})
	}
	return c.Status(statusFor(res.Err.Code)).JSON(errorBody{
		Error:   res.Err.Message,
		Details: res.Err.Details,
	})
}

// errorHandler converts any fault that escapes a handler (including panics
// recovered by the middleware) into the JSON error envelope. The gateway
// never returns a raw transport failure.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(errorBody{
			Error:   fe.Message,
			Details: "",
		})
	}

	log.Error("unhandled request failure", "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
		Error:   "Internal server error",
		Details: err.Error(),
	})
}
