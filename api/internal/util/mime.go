package util

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const OctetStream = "application/octet-stream"

var ErrBadBase64 = errors.New("bad base64")

// DecodeUpload разбирает файл, присланный строкой: base64 (обычный, URL-safe
// или без паддинга) либо data:<mime>;base64,<payload>. hint: MIME из data:URL.
func DecodeUpload(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	var hint string
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", ErrBadBase64
		}
		hint, _, _ = strings.Cut(meta, ";")
		s = payload
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, hint, nil
		}
	}
	return nil, "", ErrBadBase64
}

// PickMIME: явный MIME, затем подсказка из data:URI, иначе детект по байтам.
// application/octet-stream считается «не указан».
func PickMIME(explicit, hint string, data []byte) string {
	for _, m := range []string{explicit, hint} {
		m = stripParams(m)
		if m != "" && m != OctetStream {
			return m
		}
	}
	if len(data) > 0 {
		return stripParams(mimetype.Detect(data).String())
	}
	return OctetStream
}

func stripParams(m string) string {
	m, _, _ = strings.Cut(m, ";")
	return strings.ToLower(strings.TrimSpace(m))
}

func SHA256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
