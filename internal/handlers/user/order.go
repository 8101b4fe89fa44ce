package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

// GET /api/orders
func GetMyOrders(c *gin.Context) {
	session := middleware.GetSession(c)

	list, err := orders.ListByUser(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GET /api/orders/:id
// Visible par son propriétaire ou par un admin.
func GetOrderByID(c *gin.Context) {
	session := middleware.GetSession(c)

	order, err := orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if order.UserID != session.UserID && !session.Caller.HasAny(models.PermAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vous ne pouvez pas voir cette commande"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
