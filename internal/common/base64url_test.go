//go:build unit

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePadsURLSafe(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ""},
		{input: "a", expected: "YQ=="},
		{input: "ab", expected: "YWI="},
		{input: "abc", expected: "YWJj"},
		{input: "sm-1", expected: "c20tMQ=="},
		{input: "https://example.com/ids/sm/1", expected: "aHR0cHM6Ly9leGFtcGxlLmNvbS9pZHMvc20vMQ=="},
		{input: "こんにちは", expected: "44GT44KT44Gr44Gh44Gv"},
		{input: string([]byte{0, 1, 2, 3, 255, 254}), expected: "AAECA__-"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, EncodeString(tt.input))
			assert.Equal(t, tt.expected, Encode([]byte(tt.input)))
		})
	}
}

func TestDecodeAcceptsClientVariants(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []byte
	}{
		{name: "Padded", input: "c20tMQ==", expected: []byte("sm-1")},
		{name: "Unpadded", input: "c20tMQ", expected: []byte("sm-1")},
		{name: "OnePaddingChar", input: "YWI", expected: []byte("ab")},
		{name: "StandardAlphabet", input: "AAECA//+", expected: []byte{0, 1, 2, 3, 255, 254}},
		{name: "URLAlphabet", input: "AAECA__-", expected: []byte{0, 1, 2, 3, 255, 254}},
		{name: "Empty", input: "", expected: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := DecodeString("!@#$%^")
	assert.Error(t, err)
}

func TestRoundtrip(t *testing.T) {
	for _, id := range []string{"sm-1", "urn:aas:example:1", "https://example.com/aas?x=1&y=2", "ümlaut/äöü", ""} {
		decoded, err := DecodeString(EncodeString(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}
