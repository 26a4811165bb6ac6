package services

import (
	"io"
	"path/filepath"

	"directChat/internal/enums"
	"directChat/internal/interfaces"

	"github.com/google/uuid"
)

type FileManagerService struct {
	fileManager interfaces.FileManager
}

func NewFileManagerService(fileManager interfaces.FileManager) *FileManagerService {
	return &FileManagerService{
		fileManager: fileManager,
	}
}

// UploadUserAvatar stores the file under a fresh uuid name, keeping the
// original extension, and returns the public URL.
func (fs *FileManagerService) UploadUserAvatar(originalName string, file io.Reader, fileSize int64, contentType string) (string, error) {
	objectName := uuid.New().String() + filepath.Ext(originalName)
	return fs.fileManager.UploadFile(objectName, file, fileSize, contentType, enums.FILE_BUCKET_USER_AVATAR)
}
