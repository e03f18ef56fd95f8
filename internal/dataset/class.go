package dataset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maauso/acoustic-partition/internal/partition"
)

// Class is one labeled folder of the source tree.
type Class struct {
	// Index is the label written for every recording of the class.
	Index int
	// Name is the folder name.
	Name string
	// Dir is the folder path.
	Dir string
	// Files are the recording file names in the folder.
	Files []string
}

// ListClasses enumerates the class folders under dir. With names set, the
// folders must match names exactly and are indexed in that order; otherwise
// folders are indexed in natural sort order. Hidden entries are ignored.
func ListClasses(dir string, names []string) ([]Class, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, ErrDataMissing)
		}
		return nil, fmt.Errorf("read source tree: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			folders = append(folders, e.Name())
		}
	}
	if len(folders) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoClasses)
	}

	ordered, err := orderClasses(folders, names)
	if err != nil {
		return nil, err
	}

	classes := make([]Class, 0, len(ordered))
	for i, name := range ordered {
		classDir := filepath.Join(dir, name)
		files, err := listFiles(classDir)
		if err != nil {
			return nil, err
		}
		classes = append(classes, Class{Index: i, Name: name, Dir: classDir, Files: files})
	}
	return classes, nil
}

func orderClasses(folders, names []string) ([]string, error) {
	if len(names) == 0 {
		partition.NaturalSort(folders)
		return folders, nil
	}

	for _, n := range names {
		if !slices.Contains(folders, n) {
			return nil, fmt.Errorf("missing folder %q: %w", n, ErrUnknownClass)
		}
	}
	for _, f := range folders {
		if !slices.Contains(names, f) {
			return nil, fmt.Errorf("unlisted folder %q: %w", f, ErrUnknownClass)
		}
	}
	return slices.Clone(names), nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read class folder: %w", err)
	}
	var files []string
	for _, e := range entries {
		if hidden(e.Name()) {
			continue
		}
		regular := e.Type().IsRegular()
		if e.Type()&fs.ModeSymlink != 0 {
			// symlinked recordings count when they resolve to a file
			info, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", e.Name(), err)
			}
			regular = info.Mode().IsRegular()
		}
		if regular {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
