package vendorcsv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrTurbineToken is returned when a filename has no token at the configured position.
var ErrTurbineToken = errors.New("vendorcsv: turbine token not found")

// Family describes one kind of export file.
type Family struct {
	// Name labels the family in logs and metrics, e.g. "status".
	Name string
	// Prefix selects files by name, e.g. "Status_Kelmarsh".
	Prefix string
	// SkipRows is the number of metadata lines before the header.
	SkipRows int
	// TurbineToken is the index of the turbine number after splitting the filename on "_".
	TurbineToken int
	// TurbinePrefix is prepended to the token to form the turbine id.
	TurbinePrefix string
}

// Discover lists regular files in dir whose name starts with prefix, sorted by name.
func Discover(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// TurbineID derives the turbine id from the file name.
func (f Family) TurbineID(path string) (string, error) {
	parts := strings.Split(filepath.Base(path), "_")
	if f.TurbineToken < 0 || f.TurbineToken >= len(parts) || parts[f.TurbineToken] == "" {
		return "", fmt.Errorf("%w: %s", ErrTurbineToken, filepath.Base(path))
	}
	return f.TurbinePrefix + parts[f.TurbineToken], nil
}
