package service

import (
	"context"
	"io"

	"github.com/mantisgestion/drive-migrator/drive"
)

// Storage is the remote file store contract the migration runs against.
// *drive.Client satisfies it; tests use an in-memory fake.
type Storage interface {
	ListFolders(ctx context.Context, name, parentID string) ([]drive.Folder, error)
	CreateFolder(ctx context.Context, name, parentID string) (drive.Folder, error)
	ListFilesContaining(ctx context.Context, parentID, namePart string) ([]drive.File, error)
	DeleteFile(ctx context.Context, fileID string) error
	UploadFile(ctx context.Context, name, parentID, mimeType string, content io.Reader) (drive.File, error)
	AllowAnyoneRead(ctx context.Context, fileID string) error
}
