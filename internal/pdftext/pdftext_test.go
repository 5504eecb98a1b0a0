// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFileTxtPassthrough(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"lowercase extension", "transcript.txt", "CPE Activity Transcript\nJohn Doe\n"},
		{"uppercase extension", "TRANSCRIPT.TXT", "already extracted text"},
		{"empty file allowed", "empty.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := ExtractFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, got)
		})
	}
}

func TestExtractFileMissingTxt(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.txt")
}

func TestExtractFileBadPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-pdf.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0o644))

	_, err := ExtractFile(path)
	require.Error(t, err, "malformed PDF input must fail, not return empty text")
}

func TestJoinPages(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{"two pages", []string{"page one", "page two"}, "page one\n\f\npage two"},
		{"blank pages skipped", []string{"page one", "   \n", "page two"}, "page one\n\f\npage two"},
		{"single page", []string{"only"}, "only"},
		{"all blank", []string{"", "  "}, ""},
		{"none", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinPages(tt.pages))
		})
	}
}
