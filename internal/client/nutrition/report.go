package nutrition

import (
	"fmt"
	"strings"
)

// Report es el resumen imprimible de una consulta que el panel ofrece
// descargar. Render puro: sin red ni estado.
type Report struct {
	Mascota         string
	Cliente         string
	Fecha           string
	Diagnostico     string
	Recomendaciones string
	Observaciones   string
}

// BuildReport arma el texto del informe en el formato que usa el panel.
func BuildReport(r Report) string {
	var b strings.Builder

	b.WriteString("INFORME NUTRICIONAL\n")
	b.WriteString("===================\n\n")
	writeLine(&b, "Mascota", r.Mascota)
	writeLine(&b, "Cliente", r.Cliente)
	writeLine(&b, "Fecha", r.Fecha)
	b.WriteString("\n")
	writeSection(&b, "Diagnóstico", r.Diagnostico)
	writeSection(&b, "Recomendaciones", r.Recomendaciones)
	writeSection(&b, "Observaciones", r.Observaciones)

	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func writeSection(b *strings.Builder, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(b, "%s\n%s\n%s\n\n", title, strings.Repeat("-", len([]rune(title))), body)
}
