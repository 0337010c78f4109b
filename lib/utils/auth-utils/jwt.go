package authutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"staff-tools-backend/config"
	"staff-tools-backend/models"
)

// GetToken mints an access token for a principal. Identity provisioning is
// external, this is kept for service-to-service use and tests.
func GetToken(userID, name string, role models.UserRole, communities []string) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name":        name,
		"sub":         userID,
		"role":        string(role),
		"communities": communities,
		"exp":         time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}
