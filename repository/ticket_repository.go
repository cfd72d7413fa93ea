package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mantisgestion/drive-migrator/models"
)

type TicketRepository interface {
	// FindWithPendingBlob returns the candidate rows for one category:
	// blob column still populated, created on or after the cutoff.
	FindWithPendingBlob(ctx context.Context, cat models.TicketCategory, since time.Time) ([]models.TicketAttachment, error)
	// MarkMigrated clears the blob column and stores the shareable link in a
	// single statement, so the row never holds both.
	MarkMigrated(ctx context.Context, cat models.TicketCategory, tickSec int, url string) error
}

type TicketRepositoryImpl struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &TicketRepositoryImpl{db: db}
}

func (r *TicketRepositoryImpl) FindWithPendingBlob(ctx context.Context, cat models.TicketCategory, since time.Time) ([]models.TicketAttachment, error) {
	var rows []models.TicketAttachment
	query := fmt.Sprintf(`
		SELECT T.TickSec, T.%s AS Payload, E.CrmEmpNom, E.CrmEtapPro, ME.ModEmpNom, T.TickFecCre
		FROM Ticket T
		JOIN CrmEmpresa E ON T.CrmEmpCod = E.CrmEmpCod
		JOIN ModelosEmpresa ME ON E.ModEmpSec = ME.ModEmpSec
		WHERE T.%s IS NOT NULL AND T.TickFecCre >= ?`,
		cat.BlobColumn, cat.BlobColumn)
	if err := r.db.WithContext(ctx).Raw(query, since).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query %s candidates: %w", cat.Name, err)
	}
	return rows, nil
}

func (r *TicketRepositoryImpl) MarkMigrated(ctx context.Context, cat models.TicketCategory, tickSec int, url string) error {
	stmt := fmt.Sprintf("UPDATE Ticket SET %s = NULL, %s = ? WHERE TickSec = ?",
		cat.BlobColumn, cat.URLColumn)
	result := r.db.WithContext(ctx).Exec(stmt, url, tickSec)
	if result.Error != nil {
		return fmt.Errorf("update ticket %d: %w", tickSec, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update ticket %d: no row matched", tickSec)
	}
	return nil
}
