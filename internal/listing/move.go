package listing

import (
	"fmt"
	"slices"
)

// Move returns a copy of ids with the element at from relocated to index to,
// shifting the elements in between.
func Move(ids []string, from, to int) ([]string, error) {
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
		return nil, fmt.Errorf("move %d -> %d out of range for %d items", from, to, len(ids))
	}

	out := slices.Clone(ids)
	if from == to {
		return out, nil
	}

	id := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, id)
	return out, nil
}

// MoveOver moves activeID into the slot currently held by overID.
func MoveOver(ids []string, activeID, overID string) ([]string, error) {
	from := slices.Index(ids, activeID)
	if from < 0 {
		return nil, fmt.Errorf("item %s not found", activeID)
	}

	to := slices.Index(ids, overID)
	if to < 0 {
		return nil, fmt.Errorf("item %s not found", overID)
	}

	return Move(ids, from, to)
}
