package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mantisgestion/drive-migrator/models"
)

type ActivityRepository interface {
	FindWithPendingBlob(ctx context.Context, since time.Time) ([]models.ActivityAttachment, error)
	MarkMigrated(ctx context.Context, key models.ActivityKey, url string) error
}

type ActivityRepositoryImpl struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (r *ActivityRepositoryImpl) FindWithPendingBlob(ctx context.Context, since time.Time) ([]models.ActivityAttachment, error) {
	var rows []models.ActivityAttachment
	query := `
		SELECT T.TickSec, TA.TickActLinSec, TA.TickBitEstSec, TA.TickBitEstNue,
		       TA.TickBitFecHorCre, TA.TickActAdj, E.CrmEmpNom, E.CrmEtapPro, ME.ModEmpNom
		FROM TicketActividadNewBisEst TA
		JOIN Ticket T ON TA.TickSec = T.TickSec
		JOIN CrmEmpresa E ON T.CrmEmpCod = E.CrmEmpCod
		JOIN ModelosEmpresa ME ON E.ModEmpSec = ME.ModEmpSec
		WHERE TA.TickActAdj IS NOT NULL AND TA.TickBitFecHorCre >= ?`
	if err := r.db.WithContext(ctx).Raw(query, since).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query activity candidates: %w", err)
	}
	return rows, nil
}

func (r *ActivityRepositoryImpl) MarkMigrated(ctx context.Context, key models.ActivityKey, url string) error {
	stmt := `
		UPDATE TicketActividadNewBisEst
		SET TickActAdj = NULL, TickActAdjBitDriv = ?
		WHERE TickSec = ? AND TickActLinSec = ? AND TickBitEstSec = ?`
	result := r.db.WithContext(ctx).Exec(stmt, url, key.TickSec, key.LineSec, key.StateSec)
	if result.Error != nil {
		return fmt.Errorf("update activity %d/%d/%d: %w", key.TickSec, key.LineSec, key.StateSec, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update activity %d/%d/%d: no row matched", key.TickSec, key.LineSec, key.StateSec)
	}
	return nil
}
