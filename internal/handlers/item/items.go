package item

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

type itemInput struct {
	Title       string `json:"title" binding:"required"`
	Price       int64  `json:"price" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	LargeImage  string `json:"largeImage"`
}

// GET /api/items
func GetItems(c *gin.Context) {
	list, err := items.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": list})
}

// GET /api/items/:id
func GetItem(c *gin.Context) {
	item, err := items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// POST /api/items
func CreateItem(c *gin.Context) {
	var input itemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
		return
	}

	session := middleware.GetSession(c)
	item := &models.Item{
		UserID:      session.UserID,
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		Image:       input.Image,
		LargeImage:  input.LargeImage,
	}

	if err := items.Create(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// PUT /api/items/:id
func UpdateItem(c *gin.Context) {
	var input struct {
		Title       *string `json:"title"`
		Price       *int64  `json:"price"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	item, err := items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
			return
		}
		item.Price = *input.Price
	}
	if input.Description != nil {
		item.Description = *input.Description
	}

	if err := items.Update(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DELETE /api/items/:id
// Autorisé au propriétaire, ou à un porteur de ADMIN / ITEMDELETE.
func DeleteItem(c *gin.Context) {
	session := middleware.GetSession(c)

	item, err := items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	isOwner := item.UserID == session.UserID
	if !isOwner && !session.Caller.HasAny(models.PermAdmin, models.PermItemDelete) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vous n'avez pas le droit de supprimer cet article"})
		return
	}

	if err := items.Delete(c.Request.Context(), item.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item, "message": "Article supprimé"})
}
