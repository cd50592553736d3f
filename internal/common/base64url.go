package common

import (
	"encoding/base64"
	"strings"
)

// Encode takes a byte slice and returns a padded base64 URL-encoded string.
// This encoding is URL and filename safe as specified in RFC 4648, so the
// result can be used as a path segment without further escaping.
func Encode(data []byte) string {
	return base64.URLEncoding.EncodeToString(data)
}

// Decode takes a base64 URL-encoded string and returns the decoded bytes.
// Missing padding is restored; standard alphabet input ('+', '/') is accepted
// because some AAS clients still send it.
// Returns an error if the input is not properly encoded
func Decode(encoded string) ([]byte, error) {
	urlSafe := strings.ReplaceAll(encoded, "+", "-")
	urlSafe = strings.ReplaceAll(urlSafe, "/", "_")

	// Add padding if needed
	switch len(urlSafe) % 4 {
	case 2:
		urlSafe += "=="
	case 3:
		urlSafe += "="
	}

	return base64.URLEncoding.DecodeString(urlSafe)
}

// EncodeString is a convenience function that takes a string,
// converts it to bytes, and returns a base64 URL-encoded string
func EncodeString(data string) string {
	return Encode([]byte(data))
}

// DecodeString is a convenience function that decodes a base64 URL-encoded
// string and returns the decoded string
// Returns an error if the input is not properly encoded
func DecodeString(encoded string) (string, error) {
	bytes, err := Decode(encoded)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
