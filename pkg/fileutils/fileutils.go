package fileutils

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count using the largest 1024-based unit that keeps
// the value at or above one, with at most two decimals and no trailing zeros.
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 Bytes"
	}
	// Pick the unit with integer comparisons; log(size)/log(1024) is off by one ulp at exact powers.
	i := 0
	for i < len(sizeUnits)-1 && size >= int64(1)<<(10*(i+1)) {
		i++
	}
	scaled := float64(size) / math.Pow(1024, float64(i))
	// Round to two decimals first, then let FormatFloat drop the trailing zeros.
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(scaled, 'f', 2, 64), 64)
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[i]
}

// StatFile returns the base name and size of a regular file without opening it
func StatFile(path string) (string, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, err
	}
	if info.IsDir() {
		return "", 0, fmt.Errorf("%s is a directory", path)
	}
	return info.Name(), info.Size(), nil
}

// ListFiles returns the regular files directly inside dir, sorted by name.
// Symlinks count when they point at a regular file.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// EnsureDirectoryExists creates the specified directory if it does not exist
func EnsureDirectoryExists(path string) error {
	if path == "" {
		return fmt.Errorf("empty path provided")
	}
	return os.MkdirAll(path, os.ModePerm)
}

// FileExists checks if a file exists at the specified path
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
