package response

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"
)

// Envelope wraps every JSON body the service writes outside the reload
// endpoint, which has its own shape.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageInternalServerError = "internal server error"
)

func Success(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func write(c fiber.Ctx, status int, message string, data interface{}) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = DefaultMessage(status)
	}
	return c.Status(status).JSON(Envelope{Status: status, Message: message, Data: data})
}

// DefaultMessage is the lowercased reason phrase for status; 5xx collapse to
// one message so internal failures all read the same.
func DefaultMessage(status int) string {
	if status >= 500 {
		return MessageInternalServerError
	}
	if text := utils.StatusMessage(status); text != "" {
		return strings.ToLower(text)
	}
	return "error"
}
