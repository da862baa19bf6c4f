package registro

import (
	"strings"
	"time"
)

// Estado is the automation run status persisted on the row.
// PENDIENTE -> EN_PROCESO -> COMPLETADO | ERROR. Terminal states may
// re-enter EN_PROCESO on a manual re-trigger.
type Estado string

const (
	EstadoPendiente  Estado = "PENDIENTE"
	EstadoEnProceso  Estado = "EN_PROCESO"
	EstadoCompletado Estado = "COMPLETADO"
	EstadoError      Estado = "ERROR"
)

// Registro is one inbound business record and the unit of automation work.
// The automation engine writes back only Ticket, Estado, UltimoError and
// FechaActualizacion; everything else is owned by the intake side.
type Registro struct {
	ID            int64  `json:"id"`
	Nit           string `json:"nit"`
	Empresa       string `json:"empresa"`
	Ciudad        string `json:"ciudad"`
	Cliente       string `json:"cliente"`
	Celular       string `json:"celular"`
	Correo        string `json:"correo"`
	TipoCliente   string `json:"tipoCliente"`
	Concepto      string `json:"concepto"`
	MedioContacto string `json:"medioContacto"`
	AsignadoA     string `json:"asignadoA"`
	LineaVenta    string `json:"lineaVenta"`

	Ticket             string    `json:"ticket"`
	Estado             Estado    `json:"estadoAutomatizacion"`
	UltimoError        *string   `json:"ultimoErrorAutomatizacion"`
	FechaCreacion      time.Time `json:"fechaCreacion"`
	FechaActualizacion time.Time `json:"fechaActualizacion"`
}

// Normalize applies the intake normalization rules so downstream matching
// never sees stray whitespace or mixed case.
func (r *Registro) Normalize() {
	r.Nit = strings.TrimSpace(r.Nit)
	r.Empresa = strings.ToUpper(strings.TrimSpace(r.Empresa))
	r.Ciudad = strings.TrimSpace(r.Ciudad)
	r.Cliente = strings.ToUpper(strings.TrimSpace(r.Cliente))
	r.Celular = strings.ReplaceAll(strings.TrimSpace(r.Celular), " ", "")
	r.Correo = strings.ToLower(strings.TrimSpace(r.Correo))
	r.TipoCliente = strings.TrimSpace(r.TipoCliente)
	r.Concepto = strings.ToUpper(strings.TrimSpace(r.Concepto))
	r.MedioContacto = strings.TrimSpace(r.MedioContacto)
	r.AsignadoA = strings.ToUpper(strings.TrimSpace(r.AsignadoA))
	r.LineaVenta = strings.TrimSpace(r.LineaVenta)
}
