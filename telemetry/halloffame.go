package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pthm-cable/flappy/neural"
)

// HallEntry is a genome that earned a place among the best seen in a run.
type HallEntry struct {
	Genome     neural.Genome `json:"genome"`
	Fitness    float64       `json:"fitness"`
	Frames     int           `json:"frames"`
	Passed     int           `json:"passed"`
	Generation int           `json:"generation"`
}

// HallOfFame keeps the best distinct genomes across all generations,
// sorted by fitness descending. Elites that survive unchanged are counted
// once, at their best fitness.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates an empty hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers an entry to the hall. Returns true if the hall changed.
func (hof *HallOfFame) Consider(entry HallEntry) bool {
	for i, e := range hof.entries {
		if e.Genome != entry.Genome {
			continue
		}
		if entry.Fitness <= e.Fitness {
			return false
		}
		// Same genome scored higher (a different course); re-rank it.
		hof.entries = append(hof.entries[:i], hof.entries[i+1:]...)
		break
	}

	hof.entries = hof.insertEntry(hof.entries, entry)
	return hof.contains(entry)
}

func (hof *HallOfFame) contains(entry HallEntry) bool {
	for _, e := range hof.entries {
		if e == entry {
			return true
		}
	}
	return false
}

// insertEntry adds an entry to the hall, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	// Find insertion point (sorted descending by fitness, earlier entries win ties)
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}

	return hall
}

// Entries returns a copy of the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	out := make([]HallEntry, len(hof.entries))
	copy(out, hof.entries)
	return out
}

// Best returns the top entry.
func (hof *HallOfFame) Best() (HallEntry, bool) {
	if len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// MarshalJSON serializes the hall as a JSON array, best first.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.Marshal(hof.entries)
}

// LoadHallOfFameFromFile reads a hall of fame JSON file written by
// OutputManager.WriteHallOfFame.
func LoadHallOfFameFromFile(path string) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(len(entries))
	for _, e := range entries {
		hof.Consider(e)
	}
	return hof, nil
}
