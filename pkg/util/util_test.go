package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"365d", 365 * 24 * time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{" 500ms ", 500 * time.Millisecond, false},
		{"15", 15 * time.Second, false},
		{"0", 0, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestGetRandomString(t *testing.T) {
	a := GetRandomString(32)
	b := GetRandomString(32)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	for _, r := range a {
		assert.Contains(t, randomCharset, string(r))
	}
}

func TestOSReleaseName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "os-release")
	content := "NAME=\"Debian GNU/Linux\"\nPRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\nID=debian\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	assert.Equal(t, "Debian GNU/Linux 12 (bookworm)", osReleaseName(path))
	assert.Equal(t, "", osReleaseName(filepath.Join(dir, "missing")))
}

func TestGetMachineID_Stable(t *testing.T) {
	assert.Equal(t, GetMachineID(), GetMachineID())
}

func TestGetOSPrettyName_NotEmpty(t *testing.T) {
	assert.NotEmpty(t, GetOSPrettyName())
}
