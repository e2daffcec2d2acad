package utils

import "bytes"

// sniffLength defines the maximum number of bytes inspected when detecting binary content.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary
// data. Detection is based on null bytes in the leading sniff window, so text
// in legacy single-byte encodings is not misclassified.
func IsBinary(data []byte) bool {
	sniff := data
	if len(sniff) > sniffLength {
		sniff = sniff[:sniffLength]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}
