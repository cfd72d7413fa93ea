package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// ErrMissingRefreshToken means the service has no long-lived credential to
// exchange for access tokens; the caller should visit Config.AuthURL to
// obtain one.
var ErrMissingRefreshToken = errors.New("GOOGLE_REFRESH_TOKEN is not configured")

// Config carries the OAuth2 credential material explicitly; it is built once
// from the environment and injected, never read from hidden globals.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	RefreshToken string
}

func (c Config) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       []string{drivev3.DriveScope},
		Endpoint:     google.Endpoint,
	}
}

// AuthURL is the offline-access consent URL used to obtain a refresh token.
func (c Config) AuthURL() string {
	return c.oauthConfig().AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for tokens. Used by the
// refresh-token helper, not by the migration path.
func (c Config) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.oauthConfig().Exchange(ctx, code)
}

// Folder is a remote folder reference.
type Folder struct {
	ID          string
	Name        string
	CreatedTime time.Time
}

// File is a remote file reference plus its durable shareable link.
type File struct {
	ID          string
	Name        string
	WebViewLink string
}

// Client wraps an authorized Drive service with the operations the migration
// needs.
type Client struct {
	svc *drivev3.Service
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("%w; authorize via %s", ErrMissingRefreshToken, cfg.AuthURL())
	}
	ts := cfg.oauthConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	svc, err := drivev3.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListFolders returns the non-trashed folders with the exact name under the
// given parent.
func (c *Client) ListFolders(ctx context.Context, name, parentID string) ([]Folder, error) {
	q := NewQuery().
		Where("name", OpEquals, name).
		Where("mimeType", OpEquals, folderMimeType).
		InParents(parentID).
		Where("trashed", OpEquals, false)
	list, err := c.svc.Files.List().
		Q(q.String()).
		Fields("files(id, name, createdTime)").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list folders named %q: %w", name, err)
	}
	folders := make([]Folder, 0, len(list.Files))
	for _, f := range list.Files {
		created, _ := time.Parse(time.RFC3339, f.CreatedTime)
		folders = append(folders, Folder{ID: f.Id, Name: f.Name, CreatedTime: created})
	}
	return folders, nil
}

func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (Folder, error) {
	created, err := c.svc.Files.Create(&drivev3.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return Folder{}, fmt.Errorf("create folder %q: %w", name, err)
	}
	return Folder{ID: created.Id, Name: name}, nil
}

// ListFilesContaining returns the non-trashed files under the folder whose
// name contains the given fragment.
func (c *Client) ListFilesContaining(ctx context.Context, parentID, namePart string) ([]File, error) {
	q := NewQuery().
		InParents(parentID).
		Where("name", OpContains, namePart).
		Where("trashed", OpEquals, false)
	list, err := c.svc.Files.List().
		Q(q.String()).
		Fields("files(id, name)").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list files containing %q: %w", namePart, err)
	}
	files := make([]File, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, File{ID: f.Id, Name: f.Name})
	}
	return files, nil
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if err := c.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}
	return nil
}

func (c *Client) UploadFile(ctx context.Context, name, parentID, mimeType string, content io.Reader) (File, error) {
	created, err := c.svc.Files.Create(&drivev3.File{
		Name:    name,
		Parents: []string{parentID},
	}).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id, webViewLink").
		Context(ctx).Do()
	if err != nil {
		return File{}, fmt.Errorf("upload %q: %w", name, err)
	}
	return File{ID: created.Id, Name: name, WebViewLink: created.WebViewLink}, nil
}

// AllowAnyoneRead grants anyone-with-link read access so the stored URL
// stays usable without Drive accounts.
func (c *Client) AllowAnyoneRead(ctx context.Context, fileID string) error {
	_, err := c.svc.Permissions.Create(fileID, &drivev3.Permission{
		Role: "reader",
		Type: "anyone",
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("share file %s: %w", fileID, err)
	}
	return nil
}
