package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFontFile(t *testing.T, dir, name string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte("not a real font"), 0o644)
	require.NoError(t, err)
}

func TestCatalog_CoreFamiliesAlwaysRegistered(t *testing.T) {
	c := NewCatalog(t.TempDir())

	assert.True(t, c.Registered("Helvetica"))
	assert.True(t, c.Registered("Arial"))
	assert.False(t, c.Registered("NotoSans"))
}

func TestCatalog_PicksUpFontFiles(t *testing.T) {
	dir := t.TempDir()
	writeFontFile(t, dir, "NotoSans-Regular.ttf")
	writeFontFile(t, dir, "NotoSansJP-Regular.ttf")

	c := NewCatalog(dir)

	assert.True(t, c.Registered("NotoSans"))
	assert.True(t, c.Registered("NotoSansJP"))
	assert.False(t, c.Registered("NotoSansSC"))

	path, ok := c.Path("NotoSansJP")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "NotoSansJP-Regular.ttf"), path)

	_, ok = c.Path("Helvetica")
	assert.False(t, ok)
}

func TestCatalog_ForLanguage(t *testing.T) {
	dir := t.TempDir()
	writeFontFile(t, dir, "NotoSans-Regular.ttf")
	writeFontFile(t, dir, "NotoSansJP-Regular.ttf")

	c := NewCatalog(dir)

	assert.Equal(t, "NotoSansJP", c.ForLanguage("Japanese"))
	// Chinese family file is missing: fall back to the default family.
	assert.Equal(t, "NotoSans", c.ForLanguage("Chinese"))
	assert.Equal(t, "NotoSans", c.ForLanguage("Spanish"))
	assert.Equal(t, "NotoSans", c.ForLanguage(""))
}

func TestCatalog_ForLanguageCoreFallback(t *testing.T) {
	c := NewCatalog(t.TempDir())

	assert.Equal(t, CoreFallback, c.ForLanguage("Japanese"))
	assert.Equal(t, CoreFallback, c.ForLanguage("German"))
}

func TestCatalog_Register(t *testing.T) {
	dir := t.TempDir()
	writeFontFile(t, dir, "Custom.ttf")

	c := NewCatalog(dir)
	require.NoError(t, c.Register("Custom", filepath.Join(dir, "Custom.ttf")))
	assert.True(t, c.Registered("Custom"))

	err := c.Register("Ghost", filepath.Join(dir, "missing.ttf"))
	assert.Error(t, err)
}
