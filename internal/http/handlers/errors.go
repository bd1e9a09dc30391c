package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kustomkeys/internal/domain"
	"kustomkeys/internal/images"
	applog "kustomkeys/internal/log"
)

const genericMessage = "Something went wrong. Please try again."

// ErrorHandler renders the friendly error page. Internal detail is only shown when dev is set.
func ErrorHandler(dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := fiber.StatusInternalServerError, genericMessage
		var fe *fiber.Error
		switch {
		case errors.Is(err, domain.ErrNotFound):
			code, msg = fiber.StatusNotFound, "This page does not exist or the item is no longer available."
		case errors.Is(err, images.ErrUnsupportedType):
			code, msg = fiber.StatusUnsupportedMediaType, "Product image must be a JPEG or PNG file."
		case errors.Is(err, images.ErrTooLarge):
			code, msg = fiber.StatusRequestEntityTooLarge, "Product image must be at most 10 MiB and 40 megapixels."
		case errors.As(err, &fe):
			code = fe.Code
			if code < fiber.StatusInternalServerError {
				msg = fe.Message
			}
		}

		data := fiber.Map{"Title": "Error", "Status": code, "Message": msg}
		if code >= fiber.StatusInternalServerError {
			applog.Error(c, "server.error", err, nil)
			if dev {
				data["Detail"] = err.Error()
			}
		}
		if rerr := c.Status(code).Render("error", data); rerr != nil {
			return c.Status(code).SendString(msg)
		}
		return nil
	}
}
