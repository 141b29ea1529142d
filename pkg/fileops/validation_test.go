package fileops

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory available: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde prefix", "~/patterns", filepath.Join(home, "patterns")},
		{"absolute path unchanged", "/opt/patterns", "/opt/patterns"},
		{"relative path unchanged", "patterns", "patterns"},
		{"bare tilde unchanged", "~", "~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidatePathSecurity(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"clean absolute path", "/home/user/patterns", false},
		{"clean relative path", "auth/azure-ad.md", false},
		{"empty path", "", true},
		{"whitespace only", "   ", true},
		{"parent traversal", "../secrets", true},
		{"embedded traversal", "auth/../../etc/passwd", true},
		{"null byte", "auth\x00.md", true},
		{"control character", "auth\x01.md", true},
		{"dots in filename allowed", "auth/v1.2-notes.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathSecurity(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePathSecurity(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestIsReservedDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"/etc", true},
		{"/etc/nginx", true},
		{"/", true},
		{"/home/user/patterns", false},
		{"/tmp/patterns", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsReservedDirectory(tt.path); got != tt.expected {
				t.Errorf("IsReservedDirectory(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestValidateFileSizeLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.md")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 100)), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if err := ValidateFileSizeLimit(path, 200); err != nil {
		t.Errorf("expected file under limit to pass: %v", err)
	}
	if err := ValidateFileSizeLimit(path, 50); err == nil {
		t.Error("expected file over limit to fail")
	}
	if err := ValidateFileSizeLimit(filepath.Join(dir, "missing.md"), 50); err == nil {
		t.Error("expected missing file to fail")
	}
}

func TestIsDirEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirEmpty failed: %v", err)
	}
	if !empty {
		t.Error("expected fresh temp dir to be empty")
	}

	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	empty, err = IsDirEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirEmpty failed: %v", err)
	}
	if empty {
		t.Error("expected dir with file to be non-empty")
	}
}

func TestIsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.md")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	link := filepath.Join(dir, "link.md")
	if err := os.Symlink(target, link); err != nil {
		if runtime.GOOS == "windows" {
			t.Skipf("symlink creation failed on Windows: %v", err)
		}
		t.Fatalf("failed to create symlink: %v", err)
	}

	isLink, err := IsSymlink(link)
	if err != nil {
		t.Fatalf("IsSymlink failed: %v", err)
	}
	if !isLink {
		t.Error("expected link to be reported as symlink")
	}

	isLink, err = IsSymlink(target)
	if err != nil {
		t.Fatalf("IsSymlink failed: %v", err)
	}
	if isLink {
		t.Error("expected regular file to not be a symlink")
	}
}
