package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mantisgestion/drive-migrator/models"
)

// StageName maps the numeric CRM stage to its folder label.
func StageName(code int) string {
	switch code {
	case 1:
		return "IMPLEMENTACION"
	case 2:
		return "SOPORTE"
	case 3:
		return "TD"
	default:
		return "INDEFINIDO"
	}
}

// ModelLabel canonicalizes the product model name; unrecognized variants
// fall back to the generic web label.
func ModelLabel(name string) string {
	switch strings.ToUpper(name) {
	case "MANTISFICCGX2":
		return "MANTISFICCGX2"
	case "MANTISFICC":
		return "MANTISFICC"
	default:
		return "MANTIS WEB"
	}
}

var stateNames = map[string]string{
	"A": "Abierto",
	"C": "Cerrado",
	"R": "Revision",
	"P": "PendienteCliente",
	"Z": "ActualizarPruebas",
	"X": "ActualizarPrincipal",
	"S": "SinClasificar",
	"E": "Entregado",
	"D": "EnDesarrollo",
	"M": "PendienteCorreccion",
	"F": "PruebaClientes",
	"G": "PendienteCorreccionesCliente",
	"J": "PorEntregar",
	"T": "Cotizar",
	"k": "CorreccionPrincipal",
}

// StateName maps the single-character activity state to its label. The
// lookup is case-sensitive: the legacy schema uses lowercase "k".
func StateName(code string) string {
	if name, ok := stateNames[code]; ok {
		return name
	}
	return "Indefinido"
}

// TopLevelFolder is the root segment of every destination path.
func TopLevelFolder(meta models.FolderMeta) string {
	return fmt.Sprintf("EMPRESAS (%s) %s", StageName(meta.StageCode), ModelLabel(meta.ModelName))
}

// TicketFolderPath is the ordered folder hierarchy for a ticket category.
func TicketFolderPath(meta models.FolderMeta, categoryFolder string) []string {
	return []string{TopLevelFolder(meta), meta.CompanyName, categoryFolder}
}

// ActivityFolderPath is the ordered folder hierarchy for activity
// attachments, one level below the company's Adjuntos folder.
func ActivityFolderPath(meta models.FolderMeta) []string {
	return []string{TopLevelFolder(meta), meta.CompanyName, "Adjuntos", "Adjuntos Actividad"}
}

// TicketBaseName is the extension-free identifier used both for the final
// file name and for detecting stale versions of any prior extension.
func TicketBaseName(prefix string, tickSec int) string {
	return fmt.Sprintf("%s%d", prefix, tickSec)
}

// ActivityFileName formats the activity attachment name with the state label
// and the creation timestamp truncated to the minute.
func ActivityFileName(stateCode string, createdAt time.Time, tickSec int, extension string) string {
	ts := createdAt.UTC().Format("2006-01-02-15h04m")
	return fmt.Sprintf("adjunto_%s_%s_%d.%s", StateName(stateCode), ts, tickSec, extension)
}
