package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// oficinaLetras maps the known filing offices to their hash letter. Offices
// outside the enumeration render as '0'.
var oficinaLetras = map[string]string{
	"Asunción":        "A",
	"Ciudad del Este": "B",
	"Encarnación":     "C",
	"Coronel Oviedo":  "D",
}

// GenerarHash builds the public verification code of a complaint: six upper
// hex chars of entropy, the office letter and the two-digit filing year.
func GenerarHash(oficina string, ahora time.Time) (string, error) {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generating hash entropy: %w", err)
	}

	letra, ok := oficinaLetras[oficina]
	if !ok {
		letra = "0"
	}
	return fmt.Sprintf("%s%s%02d", strings.ToUpper(hex.EncodeToString(b[:])), letra, ahora.Year()%100), nil
}
