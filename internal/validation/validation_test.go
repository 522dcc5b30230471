package validation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"mydata/epsilon-export/internal/validation"
)

func TestIsValidPath(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "invoices.json")
	assert.NoError(t, os.WriteFile(testFile, []byte("[]"), 0600))

	tests := []struct {
		name        string
		path        string
		expectError bool
		errContains string
	}{
		{name: "file", path: testFile},
		{name: "directory", path: tmpDir},
		{name: "relative file", path: "validation.go"},
		{
			name:        "non-existent path",
			path:        filepath.Join(tmpDir, "missing.json"),
			expectError: true,
			errContains: "path does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidPath(tt.path)
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsValidInputFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "clients.xlsx")
	assert.NoError(t, os.WriteFile(testFile, []byte("x"), 0600))

	assert.NoError(t, validation.IsValidInputFile(testFile))

	err := validation.IsValidInputFile(tmpDir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	assert.Error(t, validation.IsValidInputFile(filepath.Join(tmpDir, "nope.csv")))
}

func TestIsValidOutputPath(t *testing.T) {
	tmpDir := t.TempDir()
	dirLike := filepath.Join(tmpDir, "taken.xlsx")
	assert.NoError(t, os.Mkdir(dirLike, 0750))

	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{name: "xlsx", path: filepath.Join(tmpDir, "out", "epsilon_1.xlsx")},
		{name: "upper case extension", path: filepath.Join(tmpDir, "EPSILON.XLSX")},
		{name: "empty", path: " ", errContains: "output path is empty"},
		{name: "csv", path: filepath.Join(tmpDir, "out.csv"), errContains: "unsupported output format"},
		{name: "directory", path: dirLike, errContains: "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidOutputPath(tt.path)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestIsValidVAT(t *testing.T) {
	for _, ok := range []string{"123456789", "EL123456789", " 094014201 "} {
		assert.NoError(t, validation.IsValidVAT(ok), ok)
	}
	for _, bad := range []string{"", "  ", "..", "../etc", "12/34", `12\34`} {
		assert.Error(t, validation.IsValidVAT(bad), bad)
	}
}

func TestIsValidFilePermissions(t *testing.T) {
	tests := []struct {
		name        string
		mode        os.FileMode
		expectError bool
	}{
		{name: "owner only", mode: 0600},
		{name: "group read", mode: 0640},
		{name: "world readable", mode: 0644, expectError: true},
		{name: "world writable", mode: 0666, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidFilePermissions(tt.mode)
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "file permissions are too permissive")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
