package adherence

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/example/streak/internal/core/daily"
	"github.com/example/streak/internal/core/datekey"
	"github.com/example/streak/internal/core/trigger"
)

func event(id, emotion, context string, day datekey.Key, hour int) trigger.Event {
	at, _ := time.Parse(datekey.Layout, string(day))
	at = at.Add(time.Duration(hour) * time.Hour)
	return trigger.Event{
		ID:        id,
		Emotion:   emotion,
		Context:   context,
		Intensity: 3,
		Kind:      trigger.KindUrgency,
		Date:      day,
		TimeSlot:  datekey.SlotOf(at),
		DayNumber: 1,
		CreatedAt: at,
	}
}

func TestValidRange(t *testing.T) {
	for _, n := range []int{7, 15, 30, 90} {
		if !ValidRange(n) {
			t.Errorf("ValidRange(%d) = false, want true", n)
		}
	}
	for _, n := range []int{0, 1, 14, 60, 365, -7} {
		if ValidRange(n) {
			t.Errorf("ValidRange(%d) = true, want false", n)
		}
	}
}

func TestComputeWindow_TwoOfThreeIs67(t *testing.T) {
	report := ComputeWindow(Input{
		RangeDays:   7,
		StreakStart: "2024-01-01",
		Today:       "2024-01-03",
		Records: []daily.Record{
			{Date: "2024-01-02", CompletedHabitIDs: []string{"a", "b"}, TotalHabits: 3},
		},
	})

	var found bool
	for _, p := range report.Series {
		if p.Date == "2024-01-02" {
			found = true
			if p.Value != 67 {
				t.Errorf("Value = %d, want 67", p.Value)
			}
			if p.RawCount != 2 {
				t.Errorf("RawCount = %d, want 2", p.RawCount)
			}
			if p.Label != "D2" {
				t.Errorf("Label = %q, want D2", p.Label)
			}
		}
	}
	if !found {
		t.Fatalf("series has no point for 2024-01-02: %+v", report.Series)
	}
}

func TestComputeWindow_StreakStartedToday(t *testing.T) {
	report := ComputeWindow(Input{
		RangeDays:   7,
		StreakStart: "2024-01-03",
		Today:       "2024-01-03",
	})

	want := []Point{{Label: "D1", Date: "2024-01-03", Value: 0, RawCount: 0}}
	if !reflect.DeepEqual(report.Series, want) {
		t.Errorf("Series = %+v, want %+v", report.Series, want)
	}
	if report.Stats != (Stats{}) {
		t.Errorf("Stats = %+v, want zero", report.Stats)
	}
}

func TestComputeWindow_SeriesOrderAndStats(t *testing.T) {
	report := ComputeWindow(Input{
		RangeDays:   7,
		StreakStart: "2023-12-01",
		Today:       "2024-01-07",
		Records: []daily.Record{
			{Date: "2024-01-01", CompletedHabitIDs: []string{"a", "b", "c"}, TotalHabits: 3},
			{Date: "2024-01-04", CompletedHabitIDs: []string{"a"}},
			{Date: "2024-01-07", CompletedHabitIDs: []string{"a", "b", "c", "d"}, TotalHabits: 4},
		},
	})

	if len(report.Series) != 7 {
		t.Fatalf("len(Series) = %d, want 7", len(report.Series))
	}
	if report.Series[0].Date != "2024-01-01" || report.Series[6].Date != "2024-01-07" {
		t.Errorf("series not oldest to newest: first=%s last=%s", report.Series[0].Date, report.Series[6].Date)
	}
	if report.Series[0].Label != "D32" {
		t.Errorf("first label = %q, want D32", report.Series[0].Label)
	}
	// 100 + 33 + 100 over 7 days.
	if report.Stats.Average != 33 {
		t.Errorf("Average = %d, want 33", report.Stats.Average)
	}
	if report.Stats.PerfectDays != 2 {
		t.Errorf("PerfectDays = %d, want 2", report.Stats.PerfectDays)
	}
	if report.WindowStart != "2024-01-01" {
		t.Errorf("WindowStart = %q, want 2024-01-01", report.WindowStart)
	}
}

func TestComputeWindow_EmptyInput(t *testing.T) {
	report := ComputeWindow(Input{RangeDays: 30, Today: "2024-01-03", StreakStart: "2024-01-03"})
	if report.Insight != nil {
		t.Errorf("Insight = %+v, want nil", report.Insight)
	}
	if report.Stats.Average != 0 || report.Stats.PerfectDays != 0 {
		t.Errorf("Stats = %+v, want zero", report.Stats)
	}

	none := ComputeWindow(Input{RangeDays: 0, Today: "2024-01-03"})
	if len(none.Series) != 0 || none.Series == nil {
		t.Errorf("Series = %#v, want empty non-nil", none.Series)
	}
}

func TestComputeWindow_SeriesBound(t *testing.T) {
	today := datekey.Key("2024-03-31")
	for _, rangeDays := range Ranges {
		for offset := -5; offset <= 120; offset += 7 {
			report := ComputeWindow(Input{
				RangeDays:   rangeDays,
				StreakStart: today.AddDays(-offset),
				Today:       today,
			})
			if len(report.Series) > rangeDays {
				t.Fatalf("range %d offset %d: len(Series) = %d", rangeDays, offset, len(report.Series))
			}
			for _, p := range report.Series {
				var n int
				if _, err := fmt.Sscanf(p.Label, "D%d", &n); err != nil || n < 1 {
					t.Fatalf("range %d offset %d: bad label %q", rangeDays, offset, p.Label)
				}
			}
		}
	}
}

func TestComputeWindow_TopEmotion(t *testing.T) {
	report := ComputeWindow(Input{
		RangeDays:   7,
		StreakStart: "2024-01-01",
		Today:       "2024-01-05",
		Triggers: []trigger.Event{
			event("1", "Estresse", "Trabalho", "2024-01-02", 9),
			event("2", "Tédio", "Em casa", "2024-01-03", 21),
			event("3", "Estresse", "Trabalho", "2024-01-04", 10),
			event("4", "Estresse", "Em casa", "2024-01-05", 14),
		},
	})

	if report.Insight == nil {
		t.Fatal("Insight = nil, want data")
	}
	want := Tally{Name: "Estresse", Count: 3, Percentage: 75}
	if report.Insight.TopEmotion != want {
		t.Errorf("TopEmotion = %+v, want %+v", report.Insight.TopEmotion, want)
	}
	wantRanking := []Tally{
		{Name: "Estresse", Count: 3, Percentage: 75},
		{Name: "Tédio", Count: 1, Percentage: 25},
	}
	if !reflect.DeepEqual(report.Insight.Ranking, wantRanking) {
		t.Errorf("Ranking = %+v, want %+v", report.Insight.Ranking, wantRanking)
	}
	if report.Insight.Total != 4 || report.Insight.UrgencyCount != 4 {
		t.Errorf("Total/Urgency = %d/%d, want 4/4", report.Insight.Total, report.Insight.UrgencyCount)
	}
	if report.Insight.AverageIntensity != 3 {
		t.Errorf("AverageIntensity = %v, want 3", report.Insight.AverageIntensity)
	}
}

func TestComputeWindow_TieBreakFirstSeen(t *testing.T) {
	// Input is newest-first; the tie must go to the oldest event.
	report := ComputeWindow(Input{
		RangeDays:   7,
		StreakStart: "2024-01-01",
		Today:       "2024-01-05",
		Triggers: []trigger.Event{
			event("b", "Raiva", "Festa", "2024-01-04", 20),
			event("a", "Solidão", "Sozinho", "2024-01-02", 8),
		},
	})

	if got := report.Insight.TopEmotion.Name; got != "Solidão" {
		t.Errorf("TopEmotion = %q, want Solidão", got)
	}
	if got := report.Insight.TopContext.Name; got != "Sozinho" {
		t.Errorf("TopContext = %q, want Sozinho", got)
	}
	if got := report.Insight.TopEmotion.Percentage; got != 50 {
		t.Errorf("Percentage = %d, want 50", got)
	}
}

func TestComputeWindow_FiltersOldTriggers(t *testing.T) {
	report := ComputeWindow(Input{
		RangeDays:   7,
		StreakStart: "2023-12-01",
		Today:       "2024-01-10",
		Triggers: []trigger.Event{
			event("old", "Raiva", "Festa", "2024-01-03", 20),
			event("new", "Cansaço", "Trabalho", "2024-01-04", 8),
		},
	})
	if report.Insight == nil || report.Insight.Total != 1 {
		t.Fatalf("Insight = %+v, want exactly one event", report.Insight)
	}
	if report.Insight.TopEmotion.Name != "Cansaço" {
		t.Errorf("TopEmotion = %q, want Cansaço", report.Insight.TopEmotion.Name)
	}

	empty := ComputeWindow(Input{
		RangeDays: 7, StreakStart: "2023-12-01", Today: "2024-01-20",
		Triggers: []trigger.Event{event("old", "Raiva", "Festa", "2024-01-03", 20)},
	})
	if empty.Insight != nil {
		t.Errorf("Insight = %+v, want nil", empty.Insight)
	}
}

func TestComputeWindow_RankingTopThree(t *testing.T) {
	var events []trigger.Event
	names := []string{"Estresse", "Ansiedade", "Tédio", "Raiva", "Estresse", "Ansiedade", "Estresse"}
	for i, n := range names {
		events = append(events, event(string(rune('a'+i)), n, "Outro", "2024-01-02", i))
	}
	report := ComputeWindow(Input{RangeDays: 7, StreakStart: "2024-01-01", Today: "2024-01-03", Triggers: events})

	got := make([]string, 0, len(report.Insight.Ranking))
	for _, r := range report.Insight.Ranking {
		got = append(got, r.Name)
	}
	want := []string{"Estresse", "Ansiedade", "Tédio"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ranking = %v, want %v", got, want)
	}
}

func TestComputeWindow_Idempotent(t *testing.T) {
	in := Input{
		RangeDays:   15,
		StreakStart: "2024-01-01",
		Today:       "2024-01-12",
		Records: []daily.Record{
			{Date: "2024-01-05", CompletedHabitIDs: []string{"a"}, TotalHabits: 3},
			{Date: "2024-01-11", CompletedHabitIDs: []string{"a", "b", "c"}, TotalHabits: 3},
		},
		Triggers: []trigger.Event{
			event("2", "Tédio", "Em casa", "2024-01-09", 23),
			event("1", "Raiva", "Festa", "2024-01-03", 1),
		},
	}
	first := ComputeWindow(in)
	second := ComputeWindow(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ComputeWindow not idempotent:\n%+v\n%+v", first, second)
	}
	if in.Triggers[0].ID != "2" {
		t.Error("ComputeWindow reordered the caller's trigger slice")
	}
}
