package models

// TicketCategory describes one migration workflow over the Ticket table:
// which blob column feeds it, where the resulting link is written, the
// destination folder and the file name prefix.
//
// The column names are fixed descriptors, never user input; only values are
// ever bound as SQL parameters.
type TicketCategory struct {
	Name       string
	BlobColumn string
	URLColumn  string
	Folder     string
	FilePrefix string
}

var (
	CategoryComprobante = TicketCategory{
		Name:       "autorizaciones",
		BlobColumn: "TickComFac",
		URLColumn:  "TickUrlGooDriv",
		Folder:     "Autorizaciones",
		FilePrefix: "autorizacion_",
	}
	CategoryAdjunto = TicketCategory{
		Name:       "adjuntos",
		BlobColumn: "TickAdjFac",
		URLColumn:  "TickAdjUrlGooDriv",
		Folder:     "Adjuntos",
		FilePrefix: "Adjunto_",
	}
	CategoryCotizacion = TicketCategory{
		Name:       "cotizaciones",
		BlobColumn: "TickAdjCoti",
		URLColumn:  "TickCotUrlGooDriv",
		Folder:     "Cotizaciones",
		FilePrefix: "cotizacion_",
	}
)

// CategoryAdjuntoActividad only names the activity workflow in results and
// logs; activity rows live in their own table and carry their own columns.
const CategoryAdjuntoActividad = "adjuntos_actividad"
