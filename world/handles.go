package world

import (
	"fmt"
	"strconv"
)

// The process-wide world registry. Like the material registry it has no
// internal locking: registry calls must not overlap tick calls on any
// world (caller discipline).
var (
	worlds        = make(map[ID]*World)
	latestWorldID ID
)

// Create makes a new empty world and returns its handle.
func Create() ID {
	latestWorldID++
	worlds[latestWorldID] = newWorld(latestWorldID)
	return latestWorldID
}

// Exists reports whether the world handle is live.
func Exists(id ID) bool {
	_, ok := worlds[id]
	return ok
}

// Get resolves a world handle.
func Get(id ID) (*World, error) {
	w, ok := worlds[id]
	if !ok {
		return nil, fmt.Errorf("world %s does not exist", strconv.FormatInt(int64(id), 10))
	}
	return w, nil
}

// Destroy releases a world handle. Destroying handle zero or an unknown
// handle fails.
func Destroy(id ID) error {
	if id == 0 {
		return fmt.Errorf("world %s does not exist", strconv.FormatInt(int64(id), 10))
	}
	if _, ok := worlds[id]; !ok {
		return fmt.Errorf("world %s does not exist", strconv.FormatInt(int64(id), 10))
	}
	delete(worlds, id)
	return nil
}

// ResetWorlds destroys every world. Id issuance continues monotonically.
func ResetWorlds() {
	worlds = make(map[ID]*World)
}
