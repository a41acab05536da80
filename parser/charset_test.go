package parser_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestParser_ParseStyleSheetBytes(t *testing.T) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(`p{content:"é"}`))
	require.NoError(t, err)

	var tests = []struct {
		name     string
		data     []byte
		declared string
		content  string
	}{
		{name: "Default", data: []byte(`p{content:"é"}`), content: `"é"`},
		{name: "Charset", data: []byte("@charset \"iso-8859-1\"; p{content:\"\xe9\"}"), content: `"é"`},
		{name: "Declared", data: []byte("@charset \"utf-8\"; p{content:\"\x80\"}"), declared: "windows-1252", content: `"€"`},
		{name: "UnknownLabel", data: []byte(`p{content:"é"}`), declared: "x-unknown", content: `"é"`},
		{name: "CharsetUTF16", data: []byte(`@charset "utf-16"; p{content:"é"}`), content: `"é"`},
		{name: "BOM", data: append([]byte("\xef\xbb\xbf"), `p{content:"é"}`...), declared: "iso-8859-2", content: `"é"`},
		{name: "UTF16BOM", data: utf16, content: `"é"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, h, errs := newParser()
			require.NoError(t, p.ParseStyleSheetBytes(bytes.NewReader(tt.data), tt.declared))
			assert.Empty(t, errs.Errors)
			assert.Equal(t, []string{"p {", "content: " + tt.content, "}"}, h.events)
		})
	}
}
