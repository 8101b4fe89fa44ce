package utils

import (
	"errors"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"velora_back_end/internal/models"
)

// TokenValidity : le cookie de session vaut un an, comme le token qu'il porte.
const TokenValidity = 365 * 24 * time.Hour

const TokenCookieName = "token"

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

func GenerateJWT(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(TokenValidity).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseJWT vérifie signature et expiration puis retourne (user_id, email).
func ParseJWT(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("méthode de signature inattendue")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", "", errors.New("token invalide")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("claims invalides")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", errors.New("user_id manquant")
	}

	email, _ := claims["email"].(string)
	return userID, email, nil
}

// SetSessionCookie pose le token en cookie http-only (illisible en script).
func SetSessionCookie(c *gin.Context, token string) {
	secure := os.Getenv("COOKIE_SECURE") == "true"
	c.SetCookie(TokenCookieName, token, int(TokenValidity.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie invalide le cookie côté client ; le serveur reste sans état.
func ClearSessionCookie(c *gin.Context) {
	secure := os.Getenv("COOKIE_SECURE") == "true"
	c.SetCookie(TokenCookieName, "", -1, "/", "", secure, true)
}
