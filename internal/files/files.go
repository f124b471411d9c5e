// Package files stores uploaded assets and whiteboard exports on disk under
// a single root: uploads/, avatars/ and whiteboards/ subdirectories.
package files

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"circle-backend/internal/apperror"

	"github.com/google/uuid"
)

const MaxUploadSize = 10 << 20 // 10 MiB

type SavedFile struct {
	ID               string
	StoredFilename   string
	OriginalFilename string
	Path             string
	Size             int64
	MimeType         string
}

type Storage struct {
	root string
}

func NewStorage(root string) (*Storage, error) {
	for _, dir := range []string{"uploads", "avatars", "whiteboards"} {
		if err := os.MkdirAll(filepath.Join(root, dir), os.ModePerm); err != nil {
			return nil, err
		}
	}
	return &Storage{root: root}, nil
}

func (s *Storage) Root() string {
	return s.root
}

func (s *Storage) UploadsDir() string {
	return filepath.Join(s.root, "uploads")
}

// SaveUpload writes a multipart upload under uploads/ with a uuid-based name,
// keeping the original extension. Uploads over MaxUploadSize are rejected.
func (s *Storage) SaveUpload(file multipart.File, header *multipart.FileHeader) (SavedFile, error) {
	if header.Size > MaxUploadSize {
		return SavedFile{}, apperror.New(apperror.InvalidArgument, "File size must be 10MB or less")
	}

	fileID := uuid.NewString()
	storedName := fileID + filepath.Ext(header.Filename)
	fullPath := filepath.Join(s.root, "uploads", storedName)

	dst, err := os.Create(fullPath)
	if err != nil {
		return SavedFile{}, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return SavedFile{}, err
	}
	if written > MaxUploadSize {
		os.Remove(fullPath)
		return SavedFile{}, apperror.New(apperror.InvalidArgument, "File size must be 10MB or less")
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return SavedFile{
		ID:               fileID,
		StoredFilename:   storedName,
		OriginalFilename: header.Filename,
		Path:             fullPath,
		Size:             written,
		MimeType:         mimeType,
	}, nil
}

// SaveWhiteboardPNG decodes a "data:image/png;base64,..." payload and writes
// it under whiteboards/.
func (s *Storage) SaveWhiteboardPNG(dataURL string) (SavedFile, error) {
	_, encoded, found := strings.Cut(dataURL, ",")
	if !found {
		return SavedFile{}, apperror.New(apperror.InvalidArgument, "Invalid image data")
	}

	imageBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return SavedFile{}, apperror.New(apperror.InvalidArgument, "Invalid image data")
	}

	imageID := uuid.NewString()
	storedName := fmt.Sprintf("%s.png", imageID)
	fullPath := filepath.Join(s.root, "whiteboards", storedName)

	if err := os.WriteFile(fullPath, imageBytes, 0644); err != nil {
		return SavedFile{}, err
	}

	return SavedFile{
		ID:             imageID,
		StoredFilename: storedName,
		Path:           fullPath,
		Size:           int64(len(imageBytes)),
		MimeType:       "image/png",
	}, nil
}
