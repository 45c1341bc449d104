// Package server exposes a quiz session over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/bibliz/internal/quiz"
)

// Config holds the HTTP listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP front end of a Driver.
type Server struct {
	cfg    Config
	app    *fiber.App
	driver *Driver
	log    *zap.Logger
}

// New builds the fiber app and registers every route.
func New(cfg Config, driver *Driver, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	app := fiber.New(fiber.Config{
		AppName:               "bibliz",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	s := &Server{cfg: cfg, app: app, driver: driver, log: log}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(log))

	app.Get("/healthz", s.health)

	api := app.Group("/api")
	api.Get("/state", s.state)
	api.Post("/events", s.dispatch)
	api.Get("/topics", s.topics)
	api.Get("/history", s.history)
	api.Delete("/history", s.clearHistory)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown is called.
func (s *Server) Listen() error {
	s.log.Info("listening", zap.String("addr", s.cfg.Addr))
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) state(c *fiber.Ctx) error {
	snap, err := s.driver.Snapshot(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

func (s *Server) dispatch(c *fiber.Ctx) error {
	var ev Event
	if err := c.BodyParser(&ev); err != nil {
		return &BadEventError{Reason: err.Error()}
	}
	fn, err := ev.Func()
	if err != nil {
		return err
	}
	snap, err := s.driver.Do(c.UserContext(), fn)
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

func (s *Server) topics(c *fiber.Ctx) error {
	return c.JSON(quiz.Topics())
}

func (s *Server) history(c *fiber.Ctx) error {
	results, err := s.driver.History(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// clearHistory follows the machine rules: it only applies on the history
// screen and answers 409 elsewhere.
func (s *Server) clearHistory(c *fiber.Ctx) error {
	if _, err := s.driver.Do(c.UserContext(), clearHistory); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
			Status:  fiber.StatusInternalServerError,
		}

		var badEvent *BadEventError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &badEvent):
			resp = ErrorResponse{Code: "BAD_EVENT", Message: badEvent.Error(), Status: fiber.StatusBadRequest}
		case errors.Is(err, quiz.ErrInvalidEvent):
			resp = ErrorResponse{Code: "INVALID_EVENT", Message: err.Error(), Status: fiber.StatusConflict}
		case errors.Is(err, ErrDriverStopped):
			resp = ErrorResponse{Code: "UNAVAILABLE", Message: err.Error(), Status: fiber.StatusServiceUnavailable}
		case errors.As(err, &fiberErr):
			resp = ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message, Status: fiberErr.Code}
		}

		fields := []zap.Field{
			zap.String("path", c.Path()),
			zap.Int("status", resp.Status),
			zap.Error(err),
		}
		if resp.Status >= fiber.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Warn("request rejected", fields...)
		}
		return c.Status(resp.Status).JSON(resp)
	}
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler write the response so the status is final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		id, _ := c.Locals("requestid").(string)
		log.Info("request",
			zap.String("id", id),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}
}
