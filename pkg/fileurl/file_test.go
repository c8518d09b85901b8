package fileurl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePathAndIsExist(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a", "b", "config.yaml")
	assert.False(t, IsExist(dst))

	require.NoError(t, CreatePath(dst, 0o755))
	assert.True(t, IsExist(filepath.Dir(dst)))
	require.NoError(t, os.WriteFile(dst, []byte("x"), 0o644))
	assert.True(t, IsExist(dst))
}
