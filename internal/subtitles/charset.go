package subtitles

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw subtitle bytes to a UTF-8 string with LF line endings.
// Valid UTF-8 is used as is; anything else goes through charset detection
// (BOM sniffing for UTF-16, windows-1252 otherwise). The detected encoding
// name is returned.
func DecodeText(raw []byte) (string, string, error) {
	data := bytes.TrimPrefix(raw, utf8BOM)
	name := "utf-8"
	if !utf8.Valid(data) {
		enc, detected, _ := charset.DetermineEncoding(data, "text/plain")
		if detected == "utf-8" {
			// Detection only samples the head of the file.
			enc, detected = charmap.Windows1252, "windows-1252"
		}
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", detected, fmt.Errorf("decode %s subtitle: %w", detected, err)
		}
		data = decoded
		name = detected
	}
	text := strings.TrimPrefix(string(data), "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, name, nil
}
