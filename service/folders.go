package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mantisgestion/drive-migrator/drive"
)

// AmbiguityPolicy decides which folder wins when the remote store holds
// several folders with the same name under one parent (Drive allows that).
type AmbiguityPolicy int

const (
	// PolicyFirst takes the store-defined first match.
	PolicyFirst AmbiguityPolicy = iota
	// PolicyNewest takes the most recently created match.
	PolicyNewest
	// PolicyFail refuses to pick and fails the record.
	PolicyFail
)

// ParseAmbiguityPolicy maps the configuration value to a policy.
func ParseAmbiguityPolicy(s string) (AmbiguityPolicy, error) {
	switch s {
	case "", "first":
		return PolicyFirst, nil
	case "newest":
		return PolicyNewest, nil
	case "fail":
		return PolicyFail, nil
	default:
		return PolicyFirst, fmt.Errorf("unknown folder policy %q", s)
	}
}

// FolderMaterializer finds or creates remote folders. Resolved IDs are
// cached per run, keyed by (parent, name), so a batch touching the same
// company repeatedly costs one lookup per segment.
type FolderMaterializer struct {
	storage Storage
	policy  AmbiguityPolicy
	cache   map[string]string
	logger  *logrus.Entry
}

func NewFolderMaterializer(storage Storage, policy AmbiguityPolicy, logger *logrus.Entry) *FolderMaterializer {
	return &FolderMaterializer{
		storage: storage,
		policy:  policy,
		cache:   make(map[string]string),
		logger:  logger,
	}
}

// Ensure returns the ID of the folder with the given name under the parent,
// creating it when absent.
func (f *FolderMaterializer) Ensure(ctx context.Context, parentID, name string) (string, error) {
	cacheKey := parentID + "/" + name
	if id, ok := f.cache[cacheKey]; ok {
		return id, nil
	}

	folders, err := f.storage.ListFolders(ctx, name, parentID)
	if err != nil {
		return "", err
	}

	var id string
	switch {
	case len(folders) == 0:
		f.logger.Infof("creating folder %q", name)
		created, err := f.storage.CreateFolder(ctx, name, parentID)
		if err != nil {
			return "", err
		}
		id = created.ID
	case len(folders) == 1:
		id = folders[0].ID
	default:
		picked, err := f.resolveAmbiguity(name, folders)
		if err != nil {
			return "", err
		}
		id = picked
	}

	f.cache[cacheKey] = id
	return id, nil
}

func (f *FolderMaterializer) resolveAmbiguity(name string, folders []drive.Folder) (string, error) {
	switch f.policy {
	case PolicyNewest:
		newest := folders[0]
		for _, candidate := range folders[1:] {
			if candidate.CreatedTime.After(newest.CreatedTime) {
				newest = candidate
			}
		}
		return newest.ID, nil
	case PolicyFail:
		return "", fmt.Errorf("folder name %q is ambiguous: %d matches", name, len(folders))
	default:
		f.logger.Warnf("folder name %q has %d matches, taking the first", name, len(folders))
		return folders[0].ID, nil
	}
}

// EnsurePath materializes every segment root to leaf and returns the leaf
// folder ID. Each segment depends on the previous one's ID, so the calls are
// strictly sequential.
func (f *FolderMaterializer) EnsurePath(ctx context.Context, rootID string, segments []string) (string, error) {
	parentID := rootID
	for _, segment := range segments {
		id, err := f.Ensure(ctx, parentID, segment)
		if err != nil {
			return "", fmt.Errorf("materialize folder %q: %w", segment, err)
		}
		parentID = id
	}
	return parentID, nil
}
