package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
)

const PlayerIDKey = "playerID"

// EnsurePlayerID reads the player id from the X-Player-ID header or the
// playerId query parameter and stores it in the request locals.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(PlayerIDKey) != nil {
			return c.Next()
		}

		// fiber reuses request buffers; the id outlives the request as a
		// seat or queue entry
		playerID := utils.CopyString(c.Get("X-Player-ID"))
		if playerID == "" {
			playerID = utils.CopyString(c.Query("playerId"))
		}
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		log.Debugf("request %s %s from player %s", c.Method(), c.Path(), playerID)
		c.Locals(PlayerIDKey, playerID)
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}
