package middleware

import (
	"github.com/gofiber/fiber/v2"

	authutils "staff-tools-backend/lib/utils/auth-utils"
	"staff-tools-backend/models"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if stringSub, ok := sub.(string); ok {
			return stringSub
		}
	}
	return ""
}

func GetUserName(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if name, exist := claims["name"]; exist {
		if stringName, ok := name.(string); ok {
			return stringName
		}
	}
	return ""
}

func GetRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

// GetCommunities reads the reviewer assignment set from the token. The claim
// round-trips through JSON, so the values arrive as []interface{}.
func GetCommunities(ctx *fiber.Ctx) []string {
	claims := authutils.GetClaims(ctx)
	raw, exist := claims["communities"]
	if !exist {
		return nil
	}
	values, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, value := range values {
		if community, ok := value.(string); ok {
			result = append(result, community)
		}
	}
	return result
}

func GetActor(ctx *fiber.Ctx) models.Actor {
	return models.Actor{
		UserID:      GetUserID(ctx),
		UserName:    GetUserName(ctx),
		Role:        GetRole(ctx),
		Communities: GetCommunities(ctx),
	}
}
