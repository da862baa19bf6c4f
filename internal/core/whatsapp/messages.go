package whatsapp

import (
	"fmt"
	"strings"

	"sicbot/internal/config"
	"sicbot/internal/core/registro"
	"sicbot/internal/core/textmatch"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Spanish)

// GroupMessage renders the fixed internal notification template. Line
// breaks are literal; the dispatcher types them as explicit keystrokes.
func GroupMessage(r *registro.Registro, ticket string) string {
	return strings.Join([]string{
		"Buen día, asignación de",
		"TICKET N° " + ticket,
		"NIT: " + r.Nit,
		"RAZÓN SOCIAL: " + r.Empresa,
		"NOMBRE DE CONTACTO: " + r.Cliente,
		"TELÉFONO DE CONTACTO: " + r.Celular,
		"CIUDAD: " + r.Ciudad,
		"OBSERVACIÓN: " + r.Concepto,
	}, "\n")
}

// DirectMessage renders the personalized acknowledgment for the requester.
func DirectMessage(r *registro.Registro, ticket string, maps config.Maps) string {
	nombre, _ := textmatch.SplitName(r.Cliente)
	primero := nombre
	if fields := strings.Fields(nombre); len(fields) > 0 {
		primero = fields[0]
	}
	saludo := strings.TrimSpace(Honorific(primero, maps) + " " + titleCaser.String(strings.ToLower(primero)))
	if nombre == "" {
		saludo = "Estimado(a) cliente"
	}
	return fmt.Sprintf(
		"Buen día %s, su solicitud fue registrada exitosamente con el TICKET N° %s. Uno de nuestros asesores se comunicará con usted muy pronto. ¡Gracias por contactarnos!",
		saludo, ticket,
	)
}

// Honorific picks Sr./Sra. from the injected first-name lists, defaulting
// to a generic form when the name is absent from both.
func Honorific(primerNombre string, maps config.Maps) string {
	n := textmatch.Normalize(primerNombre)
	if n == "" {
		return "Estimado(a)"
	}
	for _, f := range maps.NombresFemeninos {
		if textmatch.Normalize(f) == n {
			return "Sra."
		}
	}
	for _, m := range maps.NombresMasculinos {
		if textmatch.Normalize(m) == n {
			return "Sr."
		}
	}
	return "Estimado(a)"
}
