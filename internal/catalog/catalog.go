// Package catalog implements the shared pattern index both adapters consume.
//
// A catalog is a two-level directory tree: every immediate subdirectory of the
// root is a category, and every markdown file inside a category is a pattern.
// Nothing is cached; each operation re-reads the filesystem, so concurrent
// callers never share mutable state.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"patternbook/internal/logging"
	"patternbook/pkg/fileops"
)

// markdownExtensions contains supported markdown file extensions
var markdownExtensions = []string{
	".md", ".mdown", ".mkdn", ".mkd", ".markdown",
}

// maxPatternSize caps how large a single pattern file may be (10MB).
const maxPatternSize = 10 * 1024 * 1024

var (
	// ErrNotFound indicates the requested (category, name) pair does not
	// resolve to a file on disk.
	ErrNotFound = errors.New("pattern not found")

	// ErrInvalidKey indicates a category or name segment was malformed and
	// was rejected before any filesystem access.
	ErrInvalidKey = errors.New("invalid pattern key")
)

// Entry is the extracted metadata of one pattern file. Entries are derived,
// never persisted; they are rebuilt from disk on every call.
type Entry struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Catalog reads pattern entries from a fixed root directory. It holds no
// state beyond the resolved path and is safe for concurrent use.
type Catalog struct {
	root   string
	logger *logging.AppLogger
}

// New creates a Catalog rooted at dir. The directory must exist.
func New(dir string, logger *logging.AppLogger) (*Catalog, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("patterns directory cannot be empty")
	}

	expanded := fileops.ExpandPath(dir)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve patterns directory: %w", err)
	}

	if err := fileops.ValidatePathSecurity(abs); err != nil {
		return nil, fmt.Errorf("patterns directory failed security validation: %w", err)
	}
	if fileops.IsReservedDirectory(abs) {
		return nil, fmt.Errorf("cannot serve patterns from reserved directory: %s", abs)
	}

	// A symlinked root is resolved up front so the reserved-directory check
	// applies to the real location and os.Root confines to it.
	if isLink, err := fileops.IsSymlink(abs); err == nil && isLink {
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve patterns directory symlink: %w", err)
		}
		if fileops.IsReservedDirectory(resolved) {
			return nil, fmt.Errorf("cannot serve patterns from reserved directory: %s", resolved)
		}
		abs = resolved
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot access patterns directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("patterns path is not a directory: %s", abs)
	}

	return &Catalog{root: abs, logger: logger}, nil
}

// Root returns the resolved patterns directory.
func (c *Catalog) Root() string {
	return c.root
}

// Scan walks the category directories and returns one Entry per markdown
// file, in filesystem enumeration order. An unreadable root or category
// directory fails the whole scan; a single unreadable file is skipped.
func (c *Catalog) Scan() ([]Entry, error) {
	root, err := os.OpenRoot(c.root)
	if err != nil {
		return nil, fmt.Errorf("cannot open patterns directory: %w", err)
	}
	defer root.Close()

	categories, err := readDirEntries(root, ".")
	if err != nil {
		return nil, fmt.Errorf("cannot read patterns directory: %w", err)
	}

	var entries []Entry
	var skipped int
	for _, cat := range categories {
		if !cat.IsDir() || strings.HasPrefix(cat.Name(), ".") {
			continue
		}

		files, err := readDirEntries(root, cat.Name())
		if err != nil {
			return nil, fmt.Errorf("cannot read category directory %s: %w", cat.Name(), err)
		}

		for _, file := range files {
			if file.IsDir() || strings.HasPrefix(file.Name(), ".") || !isMarkdownFile(file.Name()) {
				continue
			}

			relPath := filepath.Join(cat.Name(), file.Name())
			content, err := c.readPattern(root, relPath)
			if err != nil {
				c.logger.Debug("Skipping unreadable pattern file", "path", relPath, "error", err)
				skipped++
				continue
			}

			entries = append(entries, buildEntry(cat.Name(), file.Name(), content))
		}
	}

	c.logger.Debug("Catalog scan completed",
		"entries", len(entries),
		"skipped", skipped,
	)
	return entries, nil
}

// Search returns the entries whose title, description, or category contains
// query, case-insensitively. An empty query matches everything. Relative
// order of the full scan is preserved.
func (c *Catalog) Search(query string) ([]Entry, error) {
	entries, err := c.Scan()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matched []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Description), q) ||
			strings.Contains(strings.ToLower(e.Category), q) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// ByCategory returns the entries whose category equals category exactly
// (case-sensitive).
func (c *Catalog) ByCategory(category string) ([]Entry, error) {
	entries, err := c.Scan()
	if err != nil {
		return nil, err
	}

	var matched []Entry
	for _, e := range entries {
		if e.Category == category {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Categories returns the bare category names, in filesystem enumeration order.
func (c *Catalog) Categories() ([]string, error) {
	root, err := os.OpenRoot(c.root)
	if err != nil {
		return nil, fmt.Errorf("cannot open patterns directory: %w", err)
	}
	defer root.Close()

	dirents, err := readDirEntries(root, ".")
	if err != nil {
		return nil, fmt.Errorf("cannot read patterns directory: %w", err)
	}

	var categories []string
	for _, d := range dirents {
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			categories = append(categories, d.Name())
		}
	}
	return categories, nil
}

// Read returns the raw text content of the pattern at (category, name).
// Malformed segments fail with ErrInvalidKey before any filesystem access;
// a missing file fails with ErrNotFound.
func (c *Catalog) Read(category, name string) (string, error) {
	if err := validateSegment(category); err != nil {
		return "", err
	}
	if err := validateSegment(name); err != nil {
		return "", err
	}

	root, err := os.OpenRoot(c.root)
	if err != nil {
		return "", fmt.Errorf("cannot open patterns directory: %w", err)
	}
	defer root.Close()

	for _, ext := range markdownExtensions {
		relPath := filepath.Join(category, name+ext)
		content, err := c.readPattern(root, relPath)
		if err == nil {
			return string(content), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return "", fmt.Errorf("cannot read pattern %s/%s: %w", category, name, err)
	}

	return "", fmt.Errorf("%w: %s/%s", ErrNotFound, category, name)
}

// readPattern reads one file confined to the catalog root, enforcing the
// size cap before the full read.
func (c *Catalog) readPattern(root *os.Root, relPath string) ([]byte, error) {
	if err := fileops.ValidateFileSizeLimit(filepath.Join(c.root, relPath), maxPatternSize); err != nil {
		return nil, err
	}

	f, err := root.Open(relPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func readDirEntries(root *os.Root, relPath string) ([]os.DirEntry, error) {
	dir, err := root.Open(relPath)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	// ReadDir(-1) preserves directory order; the catalog is deliberately
	// unsorted beyond what the filesystem returns.
	return dir.ReadDir(-1)
}

func buildEntry(category, filename string, content []byte) Entry {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	title, description := parseMetadata(content)
	if title == "" {
		title = stem
	}

	return Entry{
		Category:    category,
		Name:        stem,
		Title:       title,
		Description: description,
	}
}

// validateSegment rejects path segments that could escape the catalog tree.
func validateSegment(segment string) error {
	if strings.TrimSpace(segment) == "" {
		return fmt.Errorf("%w: segment cannot be empty", ErrInvalidKey)
	}
	if strings.ContainsAny(segment, "/\\") {
		return fmt.Errorf("%w: segment cannot contain path separators", ErrInvalidKey)
	}
	if segment == "." || segment == ".." || strings.HasPrefix(segment, ".") {
		return fmt.Errorf("%w: segment cannot start with a dot", ErrInvalidKey)
	}
	if strings.Contains(segment, "\x00") {
		return fmt.Errorf("%w: segment contains null byte", ErrInvalidKey)
	}
	return nil
}

// isMarkdownFile checks if a filename has a markdown extension.
func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return slices.Contains(markdownExtensions, ext)
}
