package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/middleware"
	"velora_back_end/internal/utils"
)

// POST /api/auth/request-reset
// Réponse générique quoi qu'il arrive : l'existence d'un compte ne fuit pas.
func RequestReset(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requis"})
		return
	}

	if err := accounts.RequestReset(c.Request.Context(), input.Email); err != nil {
		// Erreur interne uniquement (le « compte inconnu » n'en est pas une)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Si cet email existe, un lien de réinitialisation a été envoyé"})
}

// POST /api/auth/reset-password
func ResetPassword(c *gin.Context) {
	var input struct {
		Token           string `json:"token" binding:"required"`
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	user, token, err := accounts.ResetPassword(c.Request.Context(), input.Token, input.Password, input.ConfirmPassword)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SetSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"userId":  user.ID,
		"email":   user.Email,
		"message": "Mot de passe réinitialisé avec succès",
	})
}

// POST /api/auth/change-password
func ChangePassword(c *gin.Context) {
	var input struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session := middleware.GetSession(c)
	if err := accounts.ChangePassword(c.Request.Context(), session, input.OldPassword, input.NewPassword); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe changé avec succès"})
}
