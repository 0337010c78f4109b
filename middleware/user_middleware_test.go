package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"staff-tools-backend/models"
)

func actorFromClaims(t *testing.T, claims jwt.MapClaims) models.Actor {
	t.Helper()
	app := fiber.New()
	var actor models.Actor
	app.Get("/", func(ctx *fiber.Ctx) error {
		ctx.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, claims))
		actor = GetActor(ctx)
		return nil
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.Nil(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return actor
}

func TestActorClaims(t *testing.T) {
	t.Run(`claims map onto the actor check`, func(t *testing.T) {
		actor := actorFromClaims(t, jwt.MapClaims{
			"sub":         "u-rev",
			"name":        "Marco Rossi",
			"role":        string(models.ReviewerRole),
			"communities": []interface{}{"milano", "torino"},
		})
		require.Equal(t, "u-rev", actor.UserID)
		require.Equal(t, "Marco Rossi", actor.UserName)
		require.Equal(t, models.ReviewerRole, actor.Role)
		require.Equal(t, []string{"milano", "torino"}, actor.Communities)
	})

	t.Run(`non-string claims yield an empty actor instead of a panic check`, func(t *testing.T) {
		actor := actorFromClaims(t, jwt.MapClaims{
			"sub":         float64(123),
			"name":        true,
			"role":        42,
			"communities": "milano",
		})
		require.Empty(t, actor.UserID)
		require.Empty(t, actor.UserName)
		require.Empty(t, actor.Role)
		require.Nil(t, actor.Communities)
	})

	t.Run(`missing token local yields an empty actor check`, func(t *testing.T) {
		app := fiber.New()
		var actor models.Actor
		app.Get("/", func(ctx *fiber.Ctx) error {
			actor = GetActor(ctx)
			return nil
		})
		_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.Nil(t, err)
		require.Empty(t, actor.UserID)
	})
}
