package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 5 << 20

// UploadHandler stores recipe images on local disk and hands back the path
// that goes into a recipe's image_path field.
type UploadHandler struct {
	UploadDir string
}

func NewUploadHandler(uploadDir string) (*UploadHandler, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &UploadHandler{UploadDir: uploadDir}, nil
}

func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the 5MB limit"})
		return
	}

	// Sniff the real content type; the client's header is not trusted.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	fileType := http.DetectContentType(buffer[:n])

	var ext string
	switch fileType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPEG, PNG, WebP and GIF images are allowed"})
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	out, err := os.Create(filepath.Join(h.UploadDir, filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(file, maxImageSize)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":       "/uploads/" + filename,
		"filename":  filename,
		"file_size": header.Size,
		"mime_type": fileType,
	})
}

func (h *UploadHandler) ServeUpload(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}
	c.File(filepath.Join(h.UploadDir, filename))
}
