// Package wa builds WhatsApp deep links. The backend never sends messages
// itself — it hands the UI a wa.me URI that opens the client's chat with the
// rendered notification pre-filled.
package wa

import (
	"net/url"
	"strings"
)

// Link builds a wa.me deep link for the given phone-like address and
// pre-filled message text. The phone is normalized to digits only; a
// leading "+" is dropped because wa.me expects the bare country-prefixed
// number.
func Link(telefono, texto string) string {
	var b strings.Builder
	b.WriteString("https://wa.me/")
	b.WriteString(NormalizarTelefono(telefono))
	if texto != "" {
		b.WriteString("?text=")
		b.WriteString(url.QueryEscape(texto))
	}
	return b.String()
}

// NormalizarTelefono strips every non-digit character from a phone-like
// address ("+57 300 123-4567" → "573001234567").
func NormalizarTelefono(telefono string) string {
	var b strings.Builder
	for _, r := range telefono {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
