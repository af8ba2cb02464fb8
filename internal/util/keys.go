package util

import (
	"encoding/hex"
	"strings"
	"unicode"
)

// KeyLabel renders a universal key for logs and hook payloads: printable
// ASCII keys verbatim, anything else as hex.
func KeyLabel(key []byte) string {
	for _, c := range key {
		if c > unicode.MaxASCII || !unicode.IsPrint(rune(c)) {
			return hex.EncodeToString(key)
		}
	}
	return string(key)
}

// StorageKey returns the namespaced provider key of a stored record.
func StorageKey(ns, key string) string {
	var b strings.Builder
	b.Grow(len("klv:") + len(ns) + 1 + len(key))
	b.WriteString("klv:")
	b.WriteString(ns)
	b.WriteByte(':')
	b.WriteString(key)
	return b.String()
}
