package models

import "time"

// FolderMeta is the classification metadata shared by every candidate record
// kind; it is everything the path resolver needs to derive the destination
// folder hierarchy.
type FolderMeta struct {
	StageCode   int
	ModelName   string
	CompanyName string
}

// TicketAttachment is one candidate row from the Ticket table. The blob
// column varies by category, so the query aliases it to Payload.
type TicketAttachment struct {
	TickSec     int       `gorm:"column:TickSec"`
	Payload     []byte    `gorm:"column:Payload"`
	CompanyName string    `gorm:"column:CrmEmpNom"`
	StageCode   int       `gorm:"column:CrmEtapPro"`
	ModelName   string    `gorm:"column:ModEmpNom"`
	CreatedAt   time.Time `gorm:"column:TickFecCre"`
}

func (t TicketAttachment) Meta() FolderMeta {
	return FolderMeta{
		StageCode:   t.StageCode,
		ModelName:   t.ModelName,
		CompanyName: t.CompanyName,
	}
}
