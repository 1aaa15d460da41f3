package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxPassportSize caps passport photos at 1 MiB.
const maxPassportSize = int64(1 << 20)

var allowedPassportTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadPassport stores the applicant's passport photo and returns the URL
// referenced by personalInfo.passportUrl. Size and type are rejected before
// anything touches disk.
func UploadPassport(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if file.Size > maxPassportSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 1MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPassportTypes[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPG and PNG images are allowed"})
		return
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	passportDir := filepath.Join(uploadPath, "passports")
	if err := os.MkdirAll(passportDir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(passportDir, filename)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": "/uploads/passports/" + filename,
	})
}
