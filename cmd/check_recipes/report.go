package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pageza/seasonal-recipes/backend/internal/model"
	"github.com/pageza/seasonal-recipes/backend/internal/store"
)

// Problem is a recipe record that fails validation
type Problem struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Missing []string `json:"missing,omitempty"`
	Note    string   `json:"note,omitempty"`
}

// Report summarises a recipe data file
type Report struct {
	Total     int                       `json:"total"`
	ByMeal    map[string]map[string]int `json:"by_meal"`
	BySeason  map[string]int            `json:"by_season"`
	Festivals map[string]int            `json:"festivals"`
	Problems  []Problem                 `json:"problems"`
}

// Healthy reports whether no problems were found
func (r *Report) Healthy() bool {
	return len(r.Problems) == 0
}

// BuildReport counts recipes per category and meal, season and festival, and
// collects invalid or duplicated records
func BuildReport(s *store.Store) *Report {
	report := &Report{
		ByMeal:    make(map[string]map[string]int),
		BySeason:  make(map[string]int),
		Festivals: make(map[string]int),
		Problems:  []Problem{},
	}

	seen := make(map[model.Key]int)
	for i, r := range s.All() {
		report.Total++

		if missing := r.Validate(); len(missing) > 0 {
			report.Problems = append(report.Problems, Problem{Index: i, Name: r.Name, Missing: missing})
		}
		if first, dup := seen[r.Key()]; dup {
			report.Problems = append(report.Problems, Problem{
				Index: i,
				Name:  r.Name,
				Note:  fmt.Sprintf("duplicate of record %d", first),
			})
		} else {
			seen[r.Key()] = i
		}

		if report.ByMeal[r.Category] == nil {
			report.ByMeal[r.Category] = make(map[string]int)
		}
		for _, slot := range r.MealType {
			report.ByMeal[r.Category][slot]++
		}
		report.BySeason[r.Season]++
		for _, f := range strings.Split(r.Festival, ",") {
			if f = strings.TrimSpace(f); f != "" {
				report.Festivals[f]++
			}
		}
	}

	return report
}

// WriteText prints the report for a terminal
func (r *Report) WriteText(w io.Writer) {
	fmt.Fprintf(w, "recipes: %d\n", r.Total)

	for _, category := range sortedKeys(r.ByMeal) {
		fmt.Fprintf(w, "%s:", category)
		for _, slot := range model.MealSlots() {
			fmt.Fprintf(w, " %s=%d", slot, r.ByMeal[category][slot])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprint(w, "seasons:")
	for _, season := range sortedKeys(r.BySeason) {
		fmt.Fprintf(w, " %s=%d", season, r.BySeason[season])
	}
	fmt.Fprintln(w)

	fmt.Fprint(w, "festivals:")
	for _, festival := range sortedKeys(r.Festivals) {
		fmt.Fprintf(w, " %s=%d", festival, r.Festivals[festival])
	}
	fmt.Fprintln(w)

	for _, p := range r.Problems {
		if p.Note != "" {
			fmt.Fprintf(w, "record %d (%s): %s\n", p.Index, p.Name, p.Note)
			continue
		}
		fmt.Fprintf(w, "record %d (%s): missing %s\n", p.Index, p.Name, strings.Join(p.Missing, ", "))
	}
}

// WriteJSON prints the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
