// Package content loads syllabus lesson material from markdown files.
//
// A module is either a single file (<module>.md) or paginated
// (<module>_page1.md, <module>_page2.md, ...). Page files must be
// contiguous from 1; counting stops at the first gap.
package content

import (
	"fmt"
	"os"
	"path/filepath"
)

// maxPages bounds the contiguous page scan.
const maxPages = 20

// Library serves lesson content for modules from a syllabus directory.
type Library struct {
	dir string
}

// NewLibrary creates a Library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// DefaultDir resolves the syllabus directory: LEARNAI_CONTENT_DIR if set,
// else ./content/syllabus.
func DefaultDir() string {
	if d := os.Getenv("LEARNAI_CONTENT_DIR"); d != "" {
		return d
	}
	return filepath.Join("content", "syllabus")
}

// PageCount returns the number of pages in a module: the count of
// contiguous <module>_pageN.md files starting at 1, or 1 for
// single-file modules.
func (l *Library) PageCount(module string) int {
	count := 0
	for i := 1; i <= maxPages; i++ {
		if !l.exists(fmt.Sprintf("%s_page%d.md", module, i)) {
			break
		}
		count++
	}
	if count == 0 {
		return 1
	}
	return count
}

// Load returns the lesson content for a module page (0-based), with
// meta-instructional text filtered out. Paginated modules load their page
// file; if it is missing the single module file is tried before failing.
func (l *Library) Load(module string, page int) (string, error) {
	candidates := []string{
		fmt.Sprintf("%s_page%d.md", module, page+1),
		fmt.Sprintf("%s.md", module),
	}

	for _, name := range candidates {
		raw, err := os.ReadFile(filepath.Join(l.dir, name))
		if err == nil {
			return FilterMetaText(string(raw)), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read lesson %s: %w", name, err)
		}
	}

	return "", fmt.Errorf("lesson content not found for module %q page %d", module, page)
}

func (l *Library) exists(name string) bool {
	_, err := os.Stat(filepath.Join(l.dir, name))
	return err == nil
}
