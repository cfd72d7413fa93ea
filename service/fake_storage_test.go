package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mantisgestion/drive-migrator/drive"
)

// fakeStorage is an in-memory Storage: folders and files keyed by parent ID,
// with switches to inject failures and counters to assert on call volume.
type fakeStorage struct {
	folders map[string][]drive.Folder
	files   map[string][]drive.File
	seq     int

	listFolderCalls int
	createCalls     int
	uploadCalls     int
	shared          map[string]bool

	uploadErrFor  map[string]error
	listFilesErr  error
	deleteFileErr error
	permissionErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		folders:      make(map[string][]drive.Folder),
		files:        make(map[string][]drive.File),
		shared:       make(map[string]bool),
		uploadErrFor: make(map[string]error),
	}
}

func (s *fakeStorage) ListFolders(_ context.Context, name, parentID string) ([]drive.Folder, error) {
	s.listFolderCalls++
	var out []drive.Folder
	for _, f := range s.folders[parentID] {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeStorage) CreateFolder(_ context.Context, name, parentID string) (drive.Folder, error) {
	s.createCalls++
	s.seq++
	f := drive.Folder{
		ID:          fmt.Sprintf("folder-%d", s.seq),
		Name:        name,
		CreatedTime: time.Unix(int64(s.seq), 0),
	}
	s.folders[parentID] = append(s.folders[parentID], f)
	return f, nil
}

// addFolder seeds a preexisting folder, optionally with a creation time.
func (s *fakeStorage) addFolder(parentID, name string, created time.Time) drive.Folder {
	s.seq++
	f := drive.Folder{ID: fmt.Sprintf("folder-%d", s.seq), Name: name, CreatedTime: created}
	s.folders[parentID] = append(s.folders[parentID], f)
	return f
}

func (s *fakeStorage) ListFilesContaining(_ context.Context, parentID, namePart string) ([]drive.File, error) {
	if s.listFilesErr != nil {
		return nil, s.listFilesErr
	}
	var out []drive.File
	for _, f := range s.files[parentID] {
		if strings.Contains(f.Name, namePart) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeStorage) DeleteFile(_ context.Context, fileID string) error {
	if s.deleteFileErr != nil {
		return s.deleteFileErr
	}
	for parent, files := range s.files {
		for i, f := range files {
			if f.ID == fileID {
				s.files[parent] = append(files[:i], files[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("file %s not found", fileID)
}

func (s *fakeStorage) UploadFile(_ context.Context, name, parentID, _ string, content io.Reader) (drive.File, error) {
	s.uploadCalls++
	if err := s.uploadErrFor[name]; err != nil {
		return drive.File{}, err
	}
	if _, err := io.ReadAll(content); err != nil {
		return drive.File{}, err
	}
	s.seq++
	f := drive.File{
		ID:          fmt.Sprintf("file-%d", s.seq),
		Name:        name,
		WebViewLink: fmt.Sprintf("https://drive.example/file-%d/view", s.seq),
	}
	s.files[parentID] = append(s.files[parentID], f)
	return f, nil
}

func (s *fakeStorage) AllowAnyoneRead(_ context.Context, fileID string) error {
	if s.permissionErr != nil {
		return s.permissionErr
	}
	s.shared[fileID] = true
	return nil
}

// folderIDByPath walks the seeded/created tree and returns the leaf ID.
func (s *fakeStorage) folderIDByPath(rootID string, segments []string) (string, bool) {
	parent := rootID
	for _, name := range segments {
		found := false
		for _, f := range s.folders[parent] {
			if f.Name == name {
				parent = f.ID
				found = true
				break
			}
		}
		if !found {
			return "", false
		}
	}
	return parent, true
}
