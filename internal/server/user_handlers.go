package server

import (
	"amicus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /users. It returns the discoverable set for the
// authenticated user: everyone except themselves and except counterparts of a
// pending or accepted friend request.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	users, err := s.friendService.ListDiscoverable(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if users == nil {
		users = []models.PublicUser{}
	}

	return c.JSON(users)
}
