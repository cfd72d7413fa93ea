package service

import (
	"encoding/hex"
	"errors"
	"strings"
)

// ErrUnknownSignature marks a payload whose leading bytes match none of the
// supported formats. Such records are skipped before any remote or database
// call.
var ErrUnknownSignature = errors.New("unrecognized file signature")

// FileKind is the media type and extension inferred from a payload.
type FileKind struct {
	MimeType  string
	Extension string
}

var signatures = []struct {
	prefix string
	kind   FileKind
}{
	{"ffd8", FileKind{MimeType: "image/jpeg", Extension: "jpg"}},
	{"89504e47", FileKind{MimeType: "image/png", Extension: "png"}},
	{"25504446", FileKind{MimeType: "application/pdf", Extension: "pdf"}},
}

// DetectFileKind classifies a payload by its first four bytes.
func DetectFileKind(payload []byte) (FileKind, error) {
	if len(payload) < 4 {
		return FileKind{}, ErrUnknownSignature
	}
	sig := strings.ToLower(hex.EncodeToString(payload[:4]))
	for _, s := range signatures {
		if strings.HasPrefix(sig, s.prefix) {
			return s.kind, nil
		}
	}
	return FileKind{}, ErrUnknownSignature
}
