package fleet

import (
	"sync"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

// UnknownOwner is shown for assignments that reference no known user.
const UnknownOwner = "Unknown"

var _ core.UserDirectory = (*Directory)(nil)

// Directory is the set of users vehicles can be assigned to.
type Directory struct {
	mu      sync.RWMutex
	entries []model.DirectoryEntry
}

func NewDirectory(entries ...model.DirectoryEntry) *Directory {
	return &Directory{entries: append([]model.DirectoryEntry(nil), entries...)}
}

func (d *Directory) List() []model.DirectoryEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.DirectoryEntry(nil), d.entries...)
}

func (d *Directory) ResolveOwnerName(userID string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, e := range d.entries {
		if e.ID == userID {
			return e.Name
		}
	}
	return UnknownOwner
}
