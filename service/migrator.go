package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mantisgestion/drive-migrator/models"
	"github.com/mantisgestion/drive-migrator/pkg/metrics"
	"github.com/mantisgestion/drive-migrator/repository"
)

var errEmptyPayload = errors.New("payload is empty")

// ConnectionScope runs the given function with repositories bound to a
// single database connection, acquired on entry and released exactly once on
// every return path.
type ConnectionScope func(ctx context.Context, fn func(repository.TicketRepository, repository.ActivityRepository) error) error

// Options selects which categories a run processes.
type Options struct {
	Comprobante      bool
	Adjunto          bool
	Cotizacion       bool
	AdjuntoActividad bool
}

func (o Options) ticketCategories() []models.TicketCategory {
	var cats []models.TicketCategory
	if o.Comprobante {
		cats = append(cats, models.CategoryComprobante)
	}
	if o.Adjunto {
		cats = append(cats, models.CategoryAdjunto)
	}
	if o.Cotizacion {
		cats = append(cats, models.CategoryCotizacion)
	}
	return cats
}

// Outcome is one successfully migrated record.
type Outcome struct {
	TicketSec int    `json:"ticketSec"`
	URL       string `json:"url"`
}

// Failure is one record that was skipped or aborted; the rest of the batch
// is unaffected.
type Failure struct {
	Category  string `json:"category"`
	TicketSec int    `json:"ticketSec"`
	Reason    string `json:"reason"`
}

// Results aggregates a full run: per-category successes plus the explicit
// failure list.
type Results struct {
	Categories map[string][]Outcome
	Failures   []Failure
}

func newResults() *Results {
	return &Results{
		Categories: map[string][]Outcome{
			models.CategoryComprobante.Name: {},
			models.CategoryAdjunto.Name:     {},
			models.CategoryCotizacion.Name:  {},
			models.CategoryAdjuntoActividad: {},
		},
		Failures: []Failure{},
	}
}

// MigratorConfig is the run-invariant configuration of the migrator.
type MigratorConfig struct {
	RootFolderID string
	FolderPolicy AmbiguityPolicy
	CutoffDays   int
}

// Migrator moves blob attachments out of the database into the remote store,
// one record at a time. Records and categories are processed strictly
// sequentially: concurrent find-or-create calls on the same folder name can
// both miss and both create, so the whole run stays single-threaded.
type Migrator struct {
	storage Storage
	scope   ConnectionScope
	cfg     MigratorConfig
	logger  *logrus.Logger
	now     func() time.Time
}

func NewMigrator(storage Storage, scope ConnectionScope, cfg MigratorConfig, logger *logrus.Logger) *Migrator {
	return &Migrator{
		storage: storage,
		scope:   scope,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes the selected categories against one scoped database
// connection and returns the aggregated results. Per-record failures are
// collected, not returned as errors; an error here means the run itself
// failed (connection, category query).
func (m *Migrator) Run(ctx context.Context, opts Options) (*Results, error) {
	log := m.logger.WithField("run_id", uuid.NewString())
	since := m.cutoff()
	log.Infof("starting migration run, processing files created on or after %s", since.Format("2006-01-02"))

	results := newResults()
	start := time.Now()
	err := m.scope(ctx, func(tickets repository.TicketRepository, activities repository.ActivityRepository) error {
		folders := NewFolderMaterializer(m.storage, m.cfg.FolderPolicy, log)
		for _, cat := range opts.ticketCategories() {
			if err := m.migrateTicketCategory(ctx, log, tickets, folders, cat, since, results); err != nil {
				return err
			}
		}
		if opts.AdjuntoActividad {
			if err := m.migrateActivities(ctx, log, activities, folders, since, results); err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	migrated := 0
	for _, outcomes := range results.Categories {
		migrated += len(outcomes)
	}
	log.Infof("migration run finished: %d migrated, %d failed or skipped", migrated, len(results.Failures))
	return results, nil
}

// cutoff is midnight of today minus the configured window, so a value of 1
// reprocesses everything created since yesterday.
func (m *Migrator) cutoff() time.Time {
	t := m.now().AddDate(0, 0, -m.cfg.CutoffDays)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (m *Migrator) migrateTicketCategory(ctx context.Context, log *logrus.Entry, repo repository.TicketRepository, folders *FolderMaterializer, cat models.TicketCategory, since time.Time, results *Results) error {
	rows, err := repo.FindWithPendingBlob(ctx, cat, since)
	if err != nil {
		return err
	}
	log.Infof("[%s] candidate files: %d", cat.Name, len(rows))

	for _, row := range rows {
		outcome, err := m.migrateTicket(ctx, log, repo, folders, cat, row)
		if err != nil {
			m.recordFailure(log, results, cat.Name, row.TickSec, err)
			continue
		}
		metrics.FilesProcessed.WithLabelValues(cat.Name, "migrated").Inc()
		results.Categories[cat.Name] = append(results.Categories[cat.Name], outcome)
		log.Infof("[%s] ticket %d migrated", cat.Name, row.TickSec)
	}
	return nil
}

func (m *Migrator) migrateTicket(ctx context.Context, log *logrus.Entry, repo repository.TicketRepository, folders *FolderMaterializer, cat models.TicketCategory, row models.TicketAttachment) (Outcome, error) {
	if len(row.Payload) == 0 {
		return Outcome{}, errEmptyPayload
	}
	kind, err := DetectFileKind(row.Payload)
	if err != nil {
		return Outcome{}, err
	}

	leafID, err := folders.EnsurePath(ctx, m.cfg.RootFolderID, TicketFolderPath(row.Meta(), cat.Folder))
	if err != nil {
		return Outcome{}, err
	}

	baseName := TicketBaseName(cat.FilePrefix, row.TickSec)
	fileName := baseName + "." + kind.Extension

	m.cleanUpPrevious(ctx, log, leafID, baseName)

	file, err := m.storage.UploadFile(ctx, fileName, leafID, kind.MimeType, bytes.NewReader(row.Payload))
	if err != nil {
		return Outcome{}, fmt.Errorf("upload %s: %w", fileName, err)
	}
	if err := m.storage.AllowAnyoneRead(ctx, file.ID); err != nil {
		return Outcome{}, err
	}
	if err := repo.MarkMigrated(ctx, cat, row.TickSec, file.WebViewLink); err != nil {
		return Outcome{}, err
	}
	return Outcome{TicketSec: row.TickSec, URL: file.WebViewLink}, nil
}

func (m *Migrator) migrateActivities(ctx context.Context, log *logrus.Entry, repo repository.ActivityRepository, folders *FolderMaterializer, since time.Time, results *Results) error {
	rows, err := repo.FindWithPendingBlob(ctx, since)
	if err != nil {
		return err
	}
	log.Infof("[%s] candidate files: %d", models.CategoryAdjuntoActividad, len(rows))

	for _, row := range rows {
		outcome, err := m.migrateActivity(ctx, log, repo, folders, row)
		if err != nil {
			m.recordFailure(log, results, models.CategoryAdjuntoActividad, row.TickSec, err)
			continue
		}
		metrics.FilesProcessed.WithLabelValues(models.CategoryAdjuntoActividad, "migrated").Inc()
		results.Categories[models.CategoryAdjuntoActividad] = append(results.Categories[models.CategoryAdjuntoActividad], outcome)
		log.Infof("[%s] ticket %d migrated", models.CategoryAdjuntoActividad, row.TickSec)
	}
	return nil
}

func (m *Migrator) migrateActivity(ctx context.Context, log *logrus.Entry, repo repository.ActivityRepository, folders *FolderMaterializer, row models.ActivityAttachment) (Outcome, error) {
	if len(row.Payload) == 0 {
		return Outcome{}, errEmptyPayload
	}
	kind, err := DetectFileKind(row.Payload)
	if err != nil {
		return Outcome{}, err
	}

	leafID, err := folders.EnsurePath(ctx, m.cfg.RootFolderID, ActivityFolderPath(row.Meta()))
	if err != nil {
		return Outcome{}, err
	}

	fileName := ActivityFileName(row.StateCode, row.CreatedAt, row.TickSec, kind.Extension)
	baseName := strings.TrimSuffix(fileName, "."+kind.Extension)

	m.cleanUpPrevious(ctx, log, leafID, baseName)

	file, err := m.storage.UploadFile(ctx, fileName, leafID, kind.MimeType, bytes.NewReader(row.Payload))
	if err != nil {
		return Outcome{}, fmt.Errorf("upload %s: %w", fileName, err)
	}
	if err := m.storage.AllowAnyoneRead(ctx, file.ID); err != nil {
		return Outcome{}, err
	}
	if err := repo.MarkMigrated(ctx, row.ActivityKey, file.WebViewLink); err != nil {
		return Outcome{}, err
	}
	return Outcome{TicketSec: row.TickSec, URL: file.WebViewLink}, nil
}

// cleanUpPrevious removes stale versions of the file before the new upload.
// Best effort: a failure here may leave a stale duplicate behind but must
// not abort the upload.
func (m *Migrator) cleanUpPrevious(ctx context.Context, log *logrus.Entry, folderID, baseName string) {
	removed, err := m.replaceExisting(ctx, folderID, baseName)
	if err != nil {
		log.Warnf("could not clean up previous versions of %s (%d removed): %v", baseName, removed, err)
		return
	}
	if removed > 0 {
		log.Infof("removed %d previous versions of %s", removed, baseName)
	}
}

// replaceExisting deletes every non-trashed file in the folder whose name
// contains baseName and returns how many were removed.
func (m *Migrator) replaceExisting(ctx context.Context, folderID, baseName string) (int, error) {
	files, err := m.storage.ListFilesContaining(ctx, folderID, baseName)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		if err := m.storage.DeleteFile(ctx, f.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (m *Migrator) recordFailure(log *logrus.Entry, results *Results, category string, tickSec int, err error) {
	status := "failed"
	if errors.Is(err, ErrUnknownSignature) || errors.Is(err, errEmptyPayload) {
		status = "skipped"
	}
	metrics.FilesProcessed.WithLabelValues(category, status).Inc()
	log.Warnf("[%s] ticket %d %s: %v", category, tickSec, status, err)
	results.Failures = append(results.Failures, Failure{
		Category:  category,
		TicketSec: tickSec,
		Reason:    err.Error(),
	})
}
