// Package filex holds local file helpers for the console.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SaveToSubdDir writes data as dirName/fileName under the working directory
// and returns the full path. Only the base of fileName is used.
func SaveToSubdDir(dirName, fileName string, data []byte) (string, error) {
	dir, err := EnsureSubdDir(dirName)
	if err != nil {
		return "", err
	}

	base := filepath.Base(fileName)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", fileName)
	}

	path := filepath.Join(dir, base)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
