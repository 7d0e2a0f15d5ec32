// Package adherence computes windowed completion series, summary statistics
// and trigger insights from snapshots of daily records and trigger events.
// This is part of the Functional Core - no I/O, only pure functions.
package adherence

import (
	"fmt"
	"math"
	"sort"

	"github.com/example/streak/internal/core/daily"
	"github.com/example/streak/internal/core/datekey"
	"github.com/example/streak/internal/core/trigger"
)

// Ranges lists the accepted window sizes in days.
var Ranges = []int{7, 15, 30, 90}

// RankingSize is the number of emotions reported in Insight.Ranking.
const RankingSize = 3

// ValidRange reports whether n is an accepted window size.
func ValidRange(n int) bool {
	for _, r := range Ranges {
		if r == n {
			return true
		}
	}
	return false
}

// Input is a snapshot of everything a window computation reads.
type Input struct {
	RangeDays   int
	Records     []daily.Record
	Triggers    []trigger.Event
	StreakStart datekey.Key
	Today       datekey.Key
}

// Point is one day of the completion series.
type Point struct {
	Label    string      `json:"label"`
	Date     datekey.Key `json:"date"`
	Value    int         `json:"value"`
	RawCount int         `json:"raw_count"`
}

// Stats summarises the emitted series.
type Stats struct {
	Average     int `json:"average"`
	PerfectDays int `json:"perfect_days"`
}

// Tally is a counted trigger attribute.
type Tally struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Insight ranks the trigger events of the window.
type Insight struct {
	Total            int     `json:"total"`
	TopEmotion       Tally   `json:"top_emotion"`
	TopContext       Tally   `json:"top_context"`
	TopTimeSlot      Tally   `json:"top_time_slot"`
	Ranking          []Tally `json:"ranking"`
	AverageIntensity float64 `json:"average_intensity"`
	UrgencyCount     int     `json:"urgency_count"`
	RelapseCount     int     `json:"relapse_count"`
}

// Report is the result of ComputeWindow. Insight is nil when the window has
// no trigger events.
type Report struct {
	RangeDays   int         `json:"range_days"`
	WindowStart datekey.Key `json:"window_start"`
	Today       datekey.Key `json:"today"`
	Series      []Point     `json:"series"`
	Stats       Stats       `json:"stats"`
	Insight     *Insight    `json:"insight"`
}

// WindowStart returns the first day of a rangeDays window ending on today.
func WindowStart(today datekey.Key, rangeDays int) datekey.Key {
	if rangeDays < 1 {
		return today
	}
	return today.AddDays(-(rangeDays - 1))
}

// ComputeWindow builds the series, stats and trigger insight for the window
// of in.RangeDays calendar days ending on in.Today. It does not modify in.
func ComputeWindow(in Input) Report {
	start := WindowStart(in.Today, in.RangeDays)
	report := Report{
		RangeDays:   in.RangeDays,
		WindowStart: start,
		Today:       in.Today,
		Series:      []Point{},
	}
	if in.RangeDays < 1 || !in.Today.Valid() {
		return report
	}

	report.Series = buildSeries(in, start)
	report.Stats = summarize(report.Series)
	report.Insight = buildInsight(in.Triggers, start)
	return report
}

func buildSeries(in Input, start datekey.Key) []Point {
	byDate := make(map[datekey.Key]daily.Record, len(in.Records))
	for _, r := range in.Records {
		byDate[r.Date] = r
	}

	// Without a valid streak start every day in the window is numbered from
	// the window start.
	origin := in.StreakStart
	if !origin.Valid() {
		origin = start
	}

	series := make([]Point, 0, in.RangeDays)
	for i := 0; i < in.RangeDays; i++ {
		day := start.AddDays(i)
		diff, err := datekey.DaysBetween(origin, day)
		if err != nil {
			continue
		}
		dayNumber := diff + 1
		if dayNumber < 1 {
			continue
		}

		p := Point{Label: fmt.Sprintf("D%d", dayNumber), Date: day}
		if r, ok := byDate[day]; ok {
			p.RawCount = completedCount(r)
			p.Value = daily.Percentage(p.RawCount, r.TotalHabits)
		}
		series = append(series, p)
	}
	return series
}

func completedCount(r daily.Record) int {
	if n := len(r.CompletedHabitIDs); n > 0 {
		return n
	}
	return r.CompletedCount
}

func summarize(series []Point) Stats {
	if len(series) == 0 {
		return Stats{}
	}
	var sum, perfect int
	for _, p := range series {
		sum += p.Value
		if p.Value == 100 {
			perfect++
		}
	}
	return Stats{
		Average:     int(math.Round(float64(sum) / float64(len(series)))),
		PerfectDays: perfect,
	}
}

// buildInsight tallies the events dated on or after start. Events are first
// ordered oldest-first by date, recorded instant and id; ties between equal
// counts go to the value seen first in that order.
func buildInsight(events []trigger.Event, start datekey.Key) *Insight {
	inWindow := make([]trigger.Event, 0, len(events))
	for _, ev := range events {
		if !ev.Date.Valid() || ev.Date.Before(start) {
			continue
		}
		inWindow = append(inWindow, ev)
	}
	if len(inWindow) == 0 {
		return nil
	}

	sort.SliceStable(inWindow, func(i, j int) bool {
		a, b := inWindow[i], inWindow[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	emotions := newCounter()
	contexts := newCounter()
	slots := newCounter()
	insight := &Insight{Total: len(inWindow)}
	intensity := 0
	for _, ev := range inWindow {
		emotions.add(ev.Emotion)
		contexts.add(ev.Context)
		slots.add(string(ev.TimeSlot))
		intensity += ev.Intensity
		switch ev.Kind {
		case trigger.KindUrgency:
			insight.UrgencyCount++
		case trigger.KindRelapse:
			insight.RelapseCount++
		}
	}

	total := len(inWindow)
	insight.TopEmotion = emotions.ranked(total)[0]
	insight.TopContext = contexts.ranked(total)[0]
	insight.TopTimeSlot = slots.ranked(total)[0]
	ranking := emotions.ranked(total)
	if len(ranking) > RankingSize {
		ranking = ranking[:RankingSize]
	}
	insight.Ranking = ranking
	insight.AverageIntensity = math.Round(float64(intensity)/float64(total)*10) / 10
	return insight
}

// counter counts occurrences while remembering first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// ranked returns the tallies by descending count, first-seen order on ties.
func (c *counter) ranked(total int) []Tally {
	out := make([]Tally, 0, len(c.order))
	for _, name := range c.order {
		n := c.counts[name]
		out = append(out, Tally{
			Name:       name,
			Count:      n,
			Percentage: int(math.Round(100 * float64(n) / float64(total))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
