package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurePath(t *testing.T) {
	root := filepath.Clean(os.TempDir())

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "relative", path: "app/service.log", want: filepath.Join(root, "app", "service.log")},
		{name: "cleaned", path: "./app//x.log", want: filepath.Join(root, "app", "x.log")},
		{name: "absolute inside", path: filepath.Join(root, "abs.log"), want: filepath.Join(root, "abs.log")},
		{name: "empty", path: "", wantErr: ErrEmptyPath},
		{name: "traversal", path: "../etc/passwd", wantErr: ErrPathTraversal},
		{name: "nested traversal", path: "logs/../../x.log", wantErr: ErrPathTraversal},
		{name: "absolute outside", path: filepath.Join(string(filepath.Separator), "var", "log", "app.log"), wantErr: ErrPathOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SecurePath(tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecurePathDotsInNames(t *testing.T) {
	got, err := SecurePath("app..v2.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Clean(os.TempDir()), "app..v2.log"), got)
}
