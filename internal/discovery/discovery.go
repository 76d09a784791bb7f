// Package discovery enumerates contract files under a source root.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner returns every compilable artifact path.
type Scanner interface {
	Scan() ([]string, error)
}

// DirScanner walks Root recursively and keeps files ending in Extension.
// Paths are returned joined with Root, lexically sorted and de-duplicated.
type DirScanner struct {
	Root      string
	Extension string
}

// NewDirScanner creates a scanner for root/*ext (recursive).
func NewDirScanner(root, ext string) *DirScanner {
	return &DirScanner{Root: root, Extension: ext}
}

func (s *DirScanner) Scan() ([]string, error) {
	if _, err := os.Stat(s.Root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", s.Root, err)
	}

	seen := make(map[string]struct{})
	var paths []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), s.Extension) {
			return nil
		}
		clean := filepath.Clean(path)
		if _, dup := seen[clean]; dup {
			return nil
		}
		seen[clean] = struct{}{}
		paths = append(paths, clean)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.Root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// StaticScanner returns a fixed list; useful for tests and explicit manifests.
type StaticScanner []string

func (s StaticScanner) Scan() ([]string, error) {
	return append([]string(nil), s...), nil
}
