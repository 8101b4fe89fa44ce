package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/middleware"
	"velora_back_end/internal/utils"
)

// POST /api/auth/signup
func Signup(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	user, token, err := accounts.Signup(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SetSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"token":       token,
		"userId":      user.ID,
		"email":       user.Email,
		"name":        user.Name,
		"permissions": user.Permissions,
	})
}

// POST /api/auth/signin
func Signin(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	user, token, err := accounts.Signin(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SetSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"userId":      user.ID,
		"email":       user.Email,
		"name":        user.Name,
		"permissions": user.Permissions,
	})
}

// POST /api/auth/signout — efface le cookie, le serveur reste sans état.
func Signout(c *gin.Context) {
	utils.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "À bientôt !"})
}

// GET /api/auth/me
func Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if !session.Authenticated() {
		c.JSON(http.StatusOK, nil) // session anonyme : pas une erreur
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":      session.Caller.ID,
		"name":        session.Caller.Name,
		"email":       session.Caller.Email,
		"permissions": session.Caller.Permissions,
	})
}
