package server

import (
	"amicus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /friend-request
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		ToUserID uint `json:"toUserId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewInvalidInputError("Invalid request body"))
	}

	if _, err := s.friendService.SendRequest(c.Context(), userID, req.ToUserID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Friend request sent",
	})
}

// GetReceivedRequests handles GET /friend-requests/received
func (s *Server) GetReceivedRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.friendService.ListReceived(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if requests == nil {
		requests = []models.ReceivedFriendRequest{}
	}

	return c.JSON(requests)
}

// RespondFriendRequest handles POST /friend-requests/respond
func (s *Server) RespondFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		RequestID uint   `json:"requestId"`
		Status    string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewInvalidInputError("Invalid request body"))
	}
	if req.RequestID == 0 {
		return models.RespondWithError(c,
			models.NewInvalidInputError("Request ID is required"))
	}

	decision := models.FriendRequestStatus(req.Status)
	if err := s.friendService.Respond(c.Context(), req.RequestID, userID, decision); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Friend request " + req.Status,
	})
}
