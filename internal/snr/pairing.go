package snr

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoMatchingEvent is returned when a background recording has no paired
// event recording to borrow its reference power from.
var ErrNoMatchingEvent = errors.New("snr: no matching event found")

// eventFile is one candidate recording in the events tree.
type eventFile struct {
	folder string
	name   string
}

// EventIndex is a sorted listing of the events reference tree used to pair
// background recordings with foreground events.
type EventIndex struct {
	root         string
	background   string
	prefixFields int
	files        []eventFile
}

// NewEventIndex lists every non-hidden file in every non-hidden class folder
// under root. Files inside the background folder, or whose name mentions
// the background class, are never pairing candidates.
func NewEventIndex(root, background string, prefixFields int) (*EventIndex, error) {
	folders, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read events tree: %w", err)
	}

	var files []eventFile
	for _, folder := range folders {
		if !folder.IsDir() || isHidden(folder.Name()) || folder.Name() == background {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(root, folder.Name()))
		if err != nil {
			return nil, fmt.Errorf("read events folder %s: %w", folder.Name(), err)
		}
		for _, e := range entries {
			if e.IsDir() || isHidden(e.Name()) || (background != "" && strings.Contains(e.Name(), background)) {
				continue
			}
			files = append(files, eventFile{folder: folder.Name(), name: e.Name()})
		}
	}

	slices.SortFunc(files, func(a, b eventFile) int {
		return cmp.Or(cmp.Compare(a.folder, b.folder), cmp.Compare(a.name, b.name))
	})

	return &EventIndex{
		root:         root,
		background:   background,
		prefixFields: prefixFields,
		files:        files,
	}, nil
}

// Len returns the number of pairing candidates.
func (x *EventIndex) Len() int {
	return len(x.files)
}

// Lookup returns the path of the event paired with the background file
// name. The first candidate in (folder, name) order whose name ends with the
// pairing key wins.
func (x *EventIndex) Lookup(name string) (string, error) {
	key := PairKey(name, x.prefixFields)
	if key == "" {
		return "", fmt.Errorf("%s: %w", name, ErrNoMatchingEvent)
	}
	for _, f := range x.files {
		if strings.HasSuffix(f.name, key) {
			return filepath.Join(x.root, f.folder, f.name), nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNoMatchingEvent)
}

// PairKey strips the first prefixFields "-"-separated fields from name.
// It returns "" when name has no fields left after stripping.
func PairKey(name string, prefixFields int) string {
	fields := strings.Split(name, "-")
	if len(fields) <= prefixFields {
		return ""
	}
	return strings.Join(fields[prefixFields:], "-")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
