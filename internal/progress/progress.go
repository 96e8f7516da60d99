package progress

import (
	"fmt"
	"time"

	"uploadsim/pkg/fileutils"
)

const (
	// DefaultInterval is the time between two ticks of a file's simulation
	DefaultInterval = 50 * time.Millisecond
	// DefaultIncrement is the number of simulated bytes added per tick
	DefaultIncrement int64 = 1024
)

// File is a selected file descriptor. Only the metadata is known; content is never read.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Label is the list entry text for the file
func (f File) Label() string {
	return fmt.Sprintf("%s (%s)", f.Name, fileutils.FormatFileSize(f.Size))
}

// Describe builds descriptors for the given paths. Directories expand to the
// regular files they directly contain.
func Describe(paths ...string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		if !fileutils.FileExists(p) {
			return nil, fmt.Errorf("file '%s' does not exist", p)
		}
		children, err := fileutils.ListFiles(p)
		if err == nil {
			expanded, err := Describe(children...)
			if err != nil {
				return nil, err
			}
			files = append(files, expanded...)
			continue
		}
		name, size, err := fileutils.StatFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat '%s': %w", p, err)
		}
		files = append(files, File{Name: name, Size: size})
	}
	return files, nil
}

// Summary aggregates the progress of the current selection
type Summary struct {
	Files         int   `json:"files"`
	Completed     int   `json:"completed"`
	TotalBytes    int64 `json:"total_bytes"`
	UploadedBytes int64 `json:"uploaded_bytes"`
}

// Status is a point-in-time view of one file's simulation
type Status struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Size     int64   `json:"size"`
	Label    string  `json:"label"`
	Uploaded int64   `json:"uploaded"`
	Percent  float64 `json:"percent"`
	Ticks    int     `json:"ticks"`
	State    State   `json:"state"`
}
