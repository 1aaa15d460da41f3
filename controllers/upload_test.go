package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartBody(t *testing.T, fieldName, filename string, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), size))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func performUpload(t *testing.T, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.POST("/application/passport", UploadPassport)

	req := httptest.NewRequest(http.MethodPost, "/application/passport", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadPassportStoresFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_PATH", dir)

	body, contentType := multipartBody(t, "file", "me.jpg", 500*1024)
	rec := performUpload(t, body, contentType)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp["url"], "/uploads/passports/"))
	assert.True(t, strings.HasSuffix(resp["url"], ".jpg"))

	stored := filepath.Join(dir, "passports", filepath.Base(resp["url"]))
	info, err := os.Stat(stored)
	require.NoError(t, err)
	assert.Equal(t, int64(500*1024), info.Size())
}

func TestUploadPassportRejectsOversizeBeforeStoring(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_PATH", dir)

	body, contentType := multipartBody(t, "file", "me.jpg", 2*1024*1024)
	rec := performUpload(t, body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No blob was written.
	_, err := os.Stat(filepath.Join(dir, "passports"))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadPassportRejectsBadType(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_PATH", dir)

	body, contentType := multipartBody(t, "file", "resume.pdf", 1024)
	rec := performUpload(t, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadPassportRequiresFile(t *testing.T) {
	body, contentType := multipartBody(t, "wrongfield", "me.jpg", 1024)
	rec := performUpload(t, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
