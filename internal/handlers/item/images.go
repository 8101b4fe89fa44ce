package item

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"

	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

// POST /api/items/:id/image
// Upload multipart vers MinIO puis enregistrement des deux URLs sur l'article.
// Le champ largeImage reprend le même objet tant qu'aucune variante n'est générée.
func UploadItemImage(c *gin.Context) {
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

	if item.UserID != session.UserID && !session.Caller.HasAny(models.PermAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vous ne pouvez pas modifier cet article"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	objectName := fmt.Sprintf("items/%s/%d%s", item.ID, time.Now().UnixNano(), ext)

	_, err = database.MinIO.PutObject(
		c.Request.Context(),
		os.Getenv("MINIO_BUCKET"),
		objectName,
		file,
		header.Size,
		minio.PutObjectOptions{ContentType: header.Header.Get("Content-Type")},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload MinIO: " + err.Error()})
		return
	}

	imageURL := fmt.Sprintf("/uploads/%s", objectName)
	largeImageURL := imageURL

	if err := items.SetImages(c.Request.Context(), item.ID, imageURL, largeImageURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	log.Printf("📤 Image uploadée pour l'article %s: %s", item.ID, objectName)

	c.JSON(http.StatusOK, gin.H{
		"message":    "✅ Image uploadée avec succès",
		"image":      imageURL,
		"largeImage": largeImageURL,
	})
}
