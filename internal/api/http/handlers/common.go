package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// entityID validates the :id route parameter. A non-id-shaped value is
// a validation failure, not a lookup miss.
func entityID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewValidationError("invalid id", map[string]any{"id": id})
	}
	return id, nil
}
