package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/apperr"
	"velora_back_end/internal/auth"
	"velora_back_end/internal/models"
)

// RequireAnyPermission vérifie que l'appelant détient au moins une des
// permissions listées. Délègue le prédicat à la garde d'autorisation :
// pas de passe-droit ADMIN implicite.
func RequireAnyPermission(permissions ...models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if err := auth.RequireAny(session, permissions...); err != nil {
			if apperr.KindOf(err) == apperr.Unauthenticated {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
			} else {
				log.Printf("🚫 Permission refusée pour utilisateur %s: %v", session.UserID, permissions)
				c.JSON(http.StatusForbidden, gin.H{
					"error":                "Permission insuffisante",
					"required_permissions": permissions,
				})
			}
			c.Abort()
			return
		}
		c.Next()
	}
}
