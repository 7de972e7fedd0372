package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spilno/spilno-backend/internal/storage"
	"github.com/spilno/spilno-backend/pkg/logger"
)

// RegisterMediaRoutes registers publication media attachments backed by object
// storage. Only wired when MinIO is configured.
func RegisterMediaRoutes(r *gin.Engine, store *storage.MinIOStorage) {
	r.POST("/publications/:id/media", uploadMedia(store))
	r.GET("/publications/:id/media/:key", downloadMedia(store))
}

func uploadMedia(store *storage.MinIOStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			logger.Errorf("open media upload: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store media"})
			return
		}
		defer f.Close()

		key := c.Param("id") + "/" + fh.Filename
		contentType := fh.Header.Get("Content-Type")
		if err := store.UploadFile(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
			logger.Errorf("upload media %s: %v", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store media"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"key": fh.Filename})
	}
}

func downloadMedia(store *storage.MinIOStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("id") + "/" + c.Param("key")
		url, err := store.GetPresignedURL(c.Request.Context(), key, 15*time.Minute)
		if err != nil {
			logger.Errorf("presign media %s: %v", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch media"})
			return
		}
		c.Redirect(http.StatusFound, url)
	}
}
