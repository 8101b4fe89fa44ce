package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
)

// GET /api/users
func GetUsers(c *gin.Context) {
	session := middleware.GetSession(c)

	users, err := accounts.ListUsers(c.Request.Context(), session)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"userId":      u.ID,
			"name":        u.Name,
			"email":       u.Email,
			"permissions": models.PermissionsToStrings(u.Permissions),
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// PUT /api/users/:id/permissions
func UpdatePermissions(c *gin.Context) {
	targetID := c.Param("id")

	var input struct {
		Permissions []string `json:"permissions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Liste de permissions requise"})
		return
	}

	session := middleware.GetSession(c)
	updated, err := accounts.UpdatePermissions(c.Request.Context(), session, targetID, input.Permissions)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":      updated.ID,
		"email":       updated.Email,
		"permissions": models.PermissionsToStrings(updated.Permissions),
		"message":     "Permissions mises à jour",
	})
}
