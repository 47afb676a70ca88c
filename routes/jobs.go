package routes

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"photo-booking-server/models"
	"photo-booking-server/services"
	ws "photo-booking-server/websocket"
)

// Media uploads are capped per file; galleries arrive in batches.
const maxUploadBytes = 100 * 1024 * 1024

// validateMediaFile validates extension and size
func validateMediaFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > maxUploadBytes {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".heic", ".mp4", ".mov", ".zip":
		return true
	default:
		return false
	}
}

// RegisterJobRoutes registers the photographer fulfillment endpoints.
func RegisterJobRoutes(rg *gin.RouterGroup, jobs *services.JobService, storage services.StorageUploader, hub *ws.Hub) {
	rg.GET("/my", func(c *gin.Context) {
		photographerID := c.GetUint("user_id")

		entries, err := jobs.ListForPhotographer(photographerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load jobs"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": entries})
	})

	rg.GET("/:id", func(c *gin.Context) {
		photographerID := c.GetUint("user_id")
		jobID, ok := parseID(c)
		if !ok {
			return
		}

		entry, err := jobs.Get(jobID, photographerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
	})

	rg.POST("/:id/start", func(c *gin.Context) {
		photographerID := c.GetUint("user_id")
		jobID, ok := parseID(c)
		if !ok {
			return
		}

		entry, err := jobs.StartUpload(jobID, photographerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
	})

	// Append uploaded media to the job's file list. Files are stored in
	// blob storage first, then recorded as append-only rows.
	rg.POST("/:id/files", func(c *gin.Context) {
		photographerID := c.GetUint("user_id")
		jobID, ok := parseID(c)
		if !ok {
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data"})
			return
		}

		headers := form.File["files"]
		if len(headers) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No files provided"})
			return
		}

		folder := fmt.Sprintf("deliveries/job-%d", jobID)
		files := make([]models.UploadedFile, 0, len(headers))
		for _, header := range headers {
			if !validateMediaFile(header) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("Invalid file: %s", header.Filename)})
				return
			}

			f, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("Failed to read file: %s", header.Filename)})
				return
			}

			url, err := storage.UploadMedia(c.Request.Context(), folder, header.Filename, f)
			f.Close()
			if err != nil {
				log.Printf("❌ Upload failed for %s on job %d: %v", header.Filename, jobID, err)
				respondError(c, err)
				return
			}

			files = append(files, models.UploadedFile{
				FileName:   header.Filename,
				FileSize:   header.Size,
				MimeType:   header.Header.Get("Content-Type"),
				StorageURL: url,
			})
		}

		entry, err := jobs.AppendFiles(jobID, photographerID, files)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
	})

	rg.POST("/:id/deliver", func(c *gin.Context) {
		photographerID := c.GetUint("user_id")
		jobID, ok := parseID(c)
		if !ok {
			return
		}

		var req models.JobDeliver
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		entry, accessCode, err := jobs.CompleteDelivery(c.Request.Context(), jobID, photographerID, req.GalleryURL)
		if err != nil {
			respondError(c, err)
			return
		}

		ws.NotifyDeliveryCompleted(hub, entry)

		// The plaintext access code is returned once; only its hash is stored.
		c.JSON(http.StatusOK, gin.H{"success": true, "data": entry, "access_code": accessCode})
	})

	rg.POST("/:id/overtime", func(c *gin.Context) {
		photographerID := c.GetUint("user_id")
		jobID, ok := parseID(c)
		if !ok {
			return
		}

		var req models.OvertimeLog
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		request, err := jobs.LogOvertime(jobID, photographerID, req.Hours)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": request})
	})
}
