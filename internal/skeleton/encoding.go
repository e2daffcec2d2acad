package skeleton

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported for the decode cascade.
const (
	encodingNameUTF8       = "utf-8"
	encodingNamePermissive = "permissive"
)

// fallbackEncoding pairs a decoder with the name reported when it succeeds.
type fallbackEncoding struct {
	name    string
	decoder *encoding.Decoder
}

// fallbackEncodings are tried in order after UTF-8 validation fails.
var fallbackEncodings = []fallbackEncoding{
	{name: "iso-8859-1", decoder: charmap.ISO8859_1.NewDecoder()},
	{name: "windows-1252", decoder: charmap.Windows1252.NewDecoder()},
}

// DecodeText converts raw file bytes to a string. UTF-8 content passes
// through; otherwise the fallback encodings are tried in order, and as a
// last resort invalid sequences are replaced with the replacement character.
// Decoding never fails.
func DecodeText(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(data), encodingNameUTF8
	}
	for _, fallback := range fallbackEncodings {
		decodedText, decodeError := fallback.decoder.String(string(data))
		if decodeError == nil && utf8.ValidString(decodedText) {
			return decodedText, fallback.name
		}
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), encodingNamePermissive
}
