// Package fonts maps font families to TTF files and target languages to the
// family that can render them.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultFamily is the body font used when no language-specific family
// applies.
const DefaultFamily = "NotoSans"

// CoreFallback is always available: it is built into the PDF backend and
// needs no font file on disk.
const CoreFallback = "Helvetica"

// coreFamilies are built into the PDF backend.
var coreFamilies = map[string]bool{
	"Helvetica": true,
	"Arial":     true,
	"Courier":   true,
	"Times":     true,
}

// defaultFiles are the TTF files the catalog looks for under its directory.
var defaultFiles = map[string]string{
	"NotoSans":       "NotoSans-Regular.ttf",
	"NotoSansJP":     "NotoSansJP-Regular.ttf",
	"NotoSansSC":     "NotoSansSC-Regular.ttf",
	"NotoSansArabic": "NotoSansArabic-Regular.ttf",
}

// langFamilies picks a script-capable family per target language. Languages
// not listed here render fine with the default Latin family.
var langFamilies = map[string]string{
	"Japanese": "NotoSansJP",
	"Chinese":  "NotoSansSC",
	"Arabic":   "NotoSansArabic",
}

// Catalog is the set of font families a drawing surface may select. Families
// either map to a TTF file on disk or are core families built into the
// backend.
type Catalog struct {
	dir   string
	files map[string]string // family -> absolute TTF path
}

// NewCatalog returns a catalog rooted at dir, pre-registering every default
// family whose TTF file exists there. A missing directory yields a catalog
// with only the core families.
func NewCatalog(dir string) *Catalog {
	c := &Catalog{
		dir:   dir,
		files: make(map[string]string),
	}
	for family, file := range defaultFiles {
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); err == nil {
			c.files[family] = path
		}
	}
	return c
}

// Register adds a family backed by the given TTF file.
func (c *Catalog) Register(family, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("font file for %q not readable: %w", family, err)
	}
	c.files[family] = path
	return nil
}

// Registered reports whether the family can be selected on a surface.
func (c *Catalog) Registered(family string) bool {
	if coreFamilies[family] {
		return true
	}
	_, ok := c.files[family]
	return ok
}

// Path returns the TTF path for a file-backed family. Core families return
// ok=false: they need no file.
func (c *Catalog) Path(family string) (string, bool) {
	path, ok := c.files[family]
	return path, ok
}

// FileFamilies lists the file-backed families in stable order.
func (c *Catalog) FileFamilies() []string {
	families := make([]string, 0, len(c.files))
	for family := range c.files {
		families = append(families, family)
	}
	sort.Strings(families)
	return families
}

// ForLanguage returns the family that renders the given target language,
// falling back to the default family and finally to the core fallback when
// the preferred file is not on disk.
func (c *Catalog) ForLanguage(lang string) string {
	if family, ok := langFamilies[lang]; ok && c.Registered(family) {
		return family
	}
	if c.Registered(DefaultFamily) {
		return DefaultFamily
	}
	return CoreFallback
}
