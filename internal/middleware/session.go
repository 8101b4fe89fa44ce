package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/auth"
	"velora_back_end/internal/cache"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

const sessionKey = "session"

// ResolveSession construit le contexte de session de la requête : token lu
// dans le cookie ou le header Authorization, vérifié, puis appelant résolu
// via le cache utilisateur. Un token absent ou invalide donne une session
// anonyme — jamais un rejet à ce niveau, chaque opération décide ensuite.
func ResolveSession(users *cache.UserCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.Session{}

		tokenString := extractToken(c)
		if tokenString != "" {
			userID, email, err := utils.ParseJWT(tokenString)
			if err != nil {
				log.Printf("⚠️ Token rejeté: %v", err)
			} else {
				caller, err := users.Get(c.Request.Context(), userID)
				if err != nil && !errors.Is(err, store.ErrNotFound) {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
					c.Abort()
					return
				}
				if caller != nil {
					session = auth.Session{UserID: userID, Email: email, Caller: caller}
				}
			}
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.TokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetSession retourne la session posée par ResolveSession.
func GetSession(c *gin.Context) auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(auth.Session); ok {
			return s
		}
	}
	return auth.Session{}
}

// AuthRequired rejette les requêtes sans session authentifiée.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Vous devez être connecté pour faire cela"})
			c.Abort()
			return
		}
		c.Next()
	}
}
