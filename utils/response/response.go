package response

import (
	"github.com/gofiber/fiber/v2"
)

// Every body on this API is either a resource array or a flat JSON object
// with a human-readable "message" plus optional id fields. Handlers go
// through these helpers so the shape stays uniform.

// Message returns a 200 with just a message body
func Message(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": message})
}

// Created returns a 201 with a message and any extra fields (e.g. the new id)
func Created(c *fiber.Ctx, message string, fields fiber.Map) error {
	body := fiber.Map{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Error returns an error response with the given status
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{"message": message})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized returns a 401 Unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized"
	}
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden returns a 403 Forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Forbidden"
	}
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict returns a 409 Conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Too many requests"
	}
	return Error(c, fiber.StatusTooManyRequests, message)
}

// InternalServerError returns a generic 500. Storage errors are logged
// server-side by the caller; no internal detail leaks into the body.
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Internal Server Error"
	}
	return Error(c, fiber.StatusInternalServerError, message)
}
