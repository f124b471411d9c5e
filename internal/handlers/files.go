package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"circle-backend/internal/apperror"
	"circle-backend/internal/models"
	"circle-backend/internal/state"

	"github.com/go-chi/chi/v5"
)

func handleUploadFile(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, apperror.New(apperror.InvalidArgument, "No file was selected")
	}
	defer file.Close()

	saved, err := storage.SaveUpload(file, header)
	if err != nil {
		return nil, err
	}

	record := models.FileRecord{
		ID:               saved.ID,
		Filename:         saved.StoredFilename,
		OriginalFilename: saved.OriginalFilename,
		FilePath:         saved.Path,
		FileSize:         saved.Size,
		MimeType:         saved.MimeType,
		UploadBy:         user.ID,
		ServerID:         nullString(r.FormValue("serverId")),
		FeatureID:        nullString(r.FormValue("featureId")),
		CreatedAt:        time.Now().Unix(),
	}

	_, err = db.Exec(
		"INSERT INTO files (id, filename, original_filename, file_path, file_size, mime_type, upload_by, server_id, feature_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.ID, record.Filename, record.OriginalFilename, record.FilePath, record.FileSize, record.MimeType,
		record.UploadBy, record.ServerID, record.FeatureID, record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"fileId":           record.ID,
		"originalFilename": record.OriginalFilename,
		"storedFilename":   record.Filename,
		"fileSize":         record.FileSize,
		"url":              fmt.Sprintf("/files/uploads/%s", record.Filename),
	}, nil
}

func handleSaveWhiteboardImage(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	boardID := r.FormValue("boardId")
	imageData := r.FormValue("imageData")

	if featureID == "" || boardID == "" || imageData == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID, board ID, and image data are required")
	}

	saved, err := storage.SaveWhiteboardPNG(imageData)
	if err != nil {
		return nil, err
	}

	record := models.FileRecord{
		ID:               saved.ID,
		Filename:         saved.StoredFilename,
		OriginalFilename: fmt.Sprintf("whiteboard_%s.png", boardID),
		FilePath:         saved.Path,
		FileSize:         saved.Size,
		MimeType:         saved.MimeType,
		UploadBy:         user.ID,
		FeatureID:        nullString(featureID),
		CreatedAt:        time.Now().Unix(),
	}

	_, err = db.Exec(
		"INSERT INTO files (id, filename, original_filename, file_path, file_size, mime_type, upload_by, feature_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.ID, record.Filename, record.OriginalFilename, record.FilePath, record.FileSize, record.MimeType,
		record.UploadBy, record.FeatureID, record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"imageId":   record.ID,
		"imagePath": record.FilePath,
	}, nil
}

// ServeUploadedFile handles the legacy /file/<filename> shorthand, scoped to
// the uploads directory.
func ServeUploadedFile(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(chi.URLParam(r, "filename"))

	fullPath := filepath.Join(storage.UploadsDir(), filename)
	if _, err := os.Stat(fullPath); err != nil {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
