// Package fileops provides filesystem helpers shared by the catalog and
// repository layers: path expansion and the security validation applied to
// every user-supplied path before it is touched.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExpandPath expands a path that starts with "~/" to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ValidatePathSecurity rejects paths with traversal sequences, null bytes, or
// control characters. It operates on the string only and performs no I/O.
func ValidatePathSecurity(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains null byte")
	}

	for _, r := range path {
		if r < 0x20 && r != '\t' {
			return fmt.Errorf("path contains control characters")
		}
	}

	// Check traversal on the uncleared path so "a/../../b" is caught even
	// when the cleaned form would resolve inside an allowed tree.
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == ".." {
			return fmt.Errorf("path traversal not allowed")
		}
	}

	return nil
}

// IsReservedDirectory reports whether path is a system directory that should
// never be used as a catalog or clone target.
func IsReservedDirectory(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true
	}

	reserved := []string{
		"/",
		"/bin",
		"/boot",
		"/dev",
		"/etc",
		"/lib",
		"/proc",
		"/sbin",
		"/sys",
		"/usr",
		"/var",
	}

	if runtime.GOOS == "windows" {
		reserved = append(reserved,
			"C:\\Windows",
			"C:\\Program Files",
			"C:\\Program Files (x86)",
		)
	}

	for _, r := range reserved {
		if strings.EqualFold(absPath, r) {
			return true
		}
		if r != "/" && strings.HasPrefix(strings.ToLower(absPath), strings.ToLower(r)+string(os.PathSeparator)) {
			return true
		}
	}

	return false
}

// ValidateFileSizeLimit fails when the file at filePath exceeds maxSize bytes.
func ValidateFileSizeLimit(filePath string, maxSize int64) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}

	if info.Size() > maxSize {
		return fmt.Errorf("file exceeds size limit: %d > %d bytes", info.Size(), maxSize)
	}

	return nil
}

// IsDirEmpty reports whether the directory at path contains no entries.
func IsDirEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("cannot read directory: %w", err)
	}
	return len(entries) == 0, nil
}

// IsSymlink reports whether path is a symbolic link (without following it).
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("cannot lstat path: %w", err)
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}
