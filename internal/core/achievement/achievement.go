// Package achievement maps streak lengths to permanently unlocked milestones.
// This is part of the Functional Core - no I/O, only pure functions.
package achievement

import "fmt"

// Achievement is a streak milestone.
type Achievement struct {
	ID        string
	Threshold int
	Title     string
}

// catalog is ordered by threshold ascending.
var catalog = []Achievement{
	{ID: "streak_3d", Threshold: 3, Title: "Primeiros passos"},
	{ID: "streak_7d", Threshold: 7, Title: "Uma semana inteira"},
	{ID: "streak_15d", Threshold: 15, Title: "Quinzena de vitória"},
	{ID: "streak_30d", Threshold: 30, Title: "Um mês limpo"},
	{ID: "streak_60d", Threshold: 60, Title: "Dois meses"},
	{ID: "streak_90d", Threshold: 90, Title: "Reinício do cérebro"},
	{ID: "streak_180d", Threshold: 180, Title: "Meio ano"},
	{ID: "streak_365d", Threshold: 365, Title: "Um ano de liberdade"},
}

// Next returns the lowest-threshold achievement a streak of the given length
// has not reached yet. ok is false once the whole catalog is reached.
func Next(streak int) (Achievement, bool) {
	for _, a := range catalog {
		if a.Threshold > streak {
			return a, true
		}
	}
	return Achievement{}, false
}

// Lookup returns the achievement with the given id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// IDFor returns the id used for a threshold of n days.
func IDFor(n int) string {
	return fmt.Sprintf("streak_%dd", n)
}

// Evaluate returns the ids whose threshold is <= streak and which are not
// already unlocked, in threshold order. It never returns an id present in
// unlocked, so a later relapse can never revoke anything.
func Evaluate(streak int, unlocked []string) []string {
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}

	var newly []string
	for _, a := range catalog {
		if a.Threshold > streak {
			break
		}
		if !have[a.ID] {
			newly = append(newly, a.ID)
		}
	}
	return newly
}

// Merge returns the set union of unlocked and newly, preserving the order of
// unlocked followed by the first occurrence of each new id.
func Merge(unlocked, newly []string) []string {
	out := make([]string, 0, len(unlocked)+len(newly))
	seen := make(map[string]bool, len(unlocked)+len(newly))
	for _, list := range [][]string{unlocked, newly} {
		for _, id := range list {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
