package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spilno/spilno-backend/internal/feed"
	"github.com/spilno/spilno-backend/internal/feed/service"
	"github.com/spilno/spilno-backend/pkg/logger"
)

// RegisterFeedRoutes registers the publication, comment and like endpoints.
// All of them are public; bodies are passed through to the store unvalidated.
func RegisterFeedRoutes(r *gin.Engine, svc *service.Service) {
	r.GET("/publications", listPublications(svc))
	r.GET("/publications/user", listPublicationsByUser(svc))
	r.POST("/publications", createPublication(svc))
	r.PUT("/publications/:id", updatePublication(svc))
	r.DELETE("/publications/:id", deletePublication(svc))

	r.POST("/publications/:id/comments", addComment(svc))
	r.GET("/publications/:id/comments", listComments(svc))

	r.POST("/publications/:id/likes", addLike(svc))
	r.DELETE("/publications/:id/likes/:userId", removeLike(svc))
	r.GET("/publications/:id/likes/count", likeCount(svc))
	r.GET("/publications/:id/likes/:userId", hasLiked(svc))
}

func listPublications(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		pubs, err := svc.ListPublications(c.Request.Context())
		if err != nil {
			logger.Errorf("fetch publications: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publications"})
			return
		}
		c.JSON(http.StatusOK, pubs)
	}
}

func listPublicationsByUser(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		pubs, err := svc.ListPublicationsByUser(c.Request.Context(), c.Query("userId"))
		if err != nil {
			logger.Errorf("fetch publications by user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publications"})
			return
		}
		c.JSON(http.StatusOK, pubs)
	}
}

func createPublication(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body feed.Fields
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc, err := svc.CreatePublication(c.Request.Context(), body)
		if err != nil {
			logger.Errorf("add publication: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add publication"})
			return
		}
		c.JSON(http.StatusCreated, doc)
	}
}

func updatePublication(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body feed.Fields
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		err := svc.UpdatePublication(c.Request.Context(), c.Param("id"), body)
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Publication not found"})
			return
		}
		if err != nil {
			logger.Errorf("update publication: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update publication"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Publication updated successfully"})
	}
}

func deletePublication(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeletePublication(c.Request.Context(), c.Param("id")); err != nil {
			logger.Errorf("delete publication: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete publication"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Publication deleted successfully"})
	}
}

func addComment(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body feed.Fields
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc, err := svc.AddComment(c.Request.Context(), c.Param("id"), body)
		if err != nil {
			logger.Errorf("add comment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
			return
		}
		c.JSON(http.StatusCreated, doc)
	}
}

func listComments(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := svc.ListComments(c.Request.Context(), c.Param("id"))
		if err != nil {
			logger.Errorf("fetch comments: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
			return
		}
		c.JSON(http.StatusOK, comments)
	}
}

func addLike(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}
		if err := svc.AddLike(c.Request.Context(), c.Param("id"), req.UserID); err != nil {
			logger.Errorf("add like: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add like"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Like added successfully"})
	}
}

func removeLike(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemoveLike(c.Request.Context(), c.Param("id"), c.Param("userId")); err != nil {
			logger.Errorf("remove like: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove like"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Like removed successfully"})
	}
}

func likeCount(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := svc.CountLikes(c.Request.Context(), c.Param("id"))
		if err != nil {
			logger.Errorf("fetch likes count: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch likes count"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

func hasLiked(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		liked, err := svc.HasLiked(c.Request.Context(), c.Param("id"), c.Param("userId"))
		if err != nil {
			logger.Errorf("check like: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check like"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"hasLiked": liked})
	}
}
