package converter

import (
	// Registers charset handling for encoded words and text bodies.
	_ "github.com/emersion/go-message/charset"

	"golang.org/x/text/encoding/ianaindex"
)

// decodeText converts raw body bytes in the given IANA charset to UTF-8.
// Unknown charsets and decode failures fall back to the raw bytes.
func decodeText(data []byte, charsetName string) string {
	if charsetName == "" {
		return string(data)
	}
	enc, err := ianaindex.IANA.Encoding(charsetName)
	if err != nil || enc == nil {
		return string(data)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
