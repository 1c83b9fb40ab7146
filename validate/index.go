package validate

import (
	"errors"
	"strconv"

	"cinema_booking/constants"
	"cinema_booking/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// GetById parses the named route param and stores the uint in
// c.Locals under the same key.
func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil || valueKey <= 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest, constants.ERROR_INPUT, errors.New("params invalid"))
		}

		c.Locals(key, uint(valueKey))
		return c.Next()
	}
}

// body parses and validates the request body into out, replying with the
// standard envelope on failure. Returns false when the reply was sent.
func body(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest, constants.ERROR_INPUT, err)
		return false
	}
	if err := validate.Struct(out); err != nil {
		utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest, constants.ERROR_INPUT, err)
		return false
	}
	return true
}
