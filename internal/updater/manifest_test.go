package updater

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManifestReader_CurrentVersion(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    Version
	}{
		{"valid", ptr(`{"name":"start-page","version":"1.4.2","patch":3}`), Version{"1.4.2", 3}},
		{"no patch", ptr(`{"version":"1.4.2"}`), Version{"1.4.2", 0}},
		{"negative patch", ptr(`{"version":"1.4.2","patch":-2}`), Version{"1.4.2", 0}},
		{"missing version", ptr(`{"patch":3}`), Version{UnknownVersion, 0}},
		{"broken json", ptr(`{"version":`), Version{UnknownVersion, 0}},
		{"missing file", nil, Version{UnknownVersion, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != nil {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(*tt.content), 0644))
			}
			got := NewManifestReader(dir, "package.json", zap.NewNop()).CurrentVersion()
			assert.Equal(t, tt.want, got)
		})
	}
}

func ptr(s string) *string { return &s }
