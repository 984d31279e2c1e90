package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"strconv"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("mail").Funcs(template.FuncMap{
		"clp":    FormatCLP,
		"date":   formatDate,
		"status": statusLabel,
	}).ParseFS(templateFS, "templates/*.html"),
)

// Render executes an embedded template by file name.
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", name, err)
	}
	return buf.String(), nil
}

// FormatCLP renders an amount in Chilean pesos: 97000 → "$97.000".
func FormatCLP(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006 15:04")
}

var statusLabels = map[string]string{
	"pending":     "Pendiente",
	"confirmed":   "Confirmado",
	"processing":  "En preparación",
	"shipped":     "Enviado",
	"delivered":   "Entregado",
	"cancelled":   "Cancelado",
	"quoted":      "Cotizado",
	"accepted":    "Aceptado",
	"in_progress": "En progreso",
	"completed":   "Completado",
}

// statusLabel accepts any string-kinded status type.
func statusLabel(v any) string {
	s := fmt.Sprint(v)
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

func encodeHeader(s string) string {
	return mime.QEncoding.Encode("utf-8", s)
}
