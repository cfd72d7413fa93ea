package models

import "time"

// ActivityKey is the composite key of an activity attachment row; all three
// parts are needed to address the row on writeback.
type ActivityKey struct {
	TickSec  int `gorm:"column:TickSec"`
	LineSec  int `gorm:"column:TickActLinSec"`
	StateSec int `gorm:"column:TickBitEstSec"`
}

// ActivityAttachment is one candidate row from TicketActividadNewBisEst,
// joined with the owning ticket's company and model data.
type ActivityAttachment struct {
	ActivityKey
	StateCode   string    `gorm:"column:TickBitEstNue"`
	CreatedAt   time.Time `gorm:"column:TickBitFecHorCre"`
	Payload     []byte    `gorm:"column:TickActAdj"`
	CompanyName string    `gorm:"column:CrmEmpNom"`
	StageCode   int       `gorm:"column:CrmEtapPro"`
	ModelName   string    `gorm:"column:ModEmpNom"`
}

func (a ActivityAttachment) Meta() FolderMeta {
	return FolderMeta{
		StageCode:   a.StageCode,
		ModelName:   a.ModelName,
		CompanyName: a.CompanyName,
	}
}
