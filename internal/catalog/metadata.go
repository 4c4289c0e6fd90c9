package catalog

import (
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Matches reports whether the file at f.Path still has the recorded
// size and modification time.
func (f FileFingerprint) Matches() bool {
	cur, err := StatFile(f.Path)
	if err != nil {
		return false
	}
	return cur.Size == f.Size && cur.ModTime.UTC().Truncate(time.Microsecond).Equal(f.ModTime.UTC().Truncate(time.Microsecond))
}
