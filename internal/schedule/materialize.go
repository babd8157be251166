package schedule

import (
	"sort"

	"github.com/meet-when/shiftsched/internal/solver"
	"github.com/meet-when/shiftsched/internal/timeutil"
)

// materialize reads back a solved Model's assignment variables and
// turns them into the occurrence/assignment pairs the caller actually
// wants: one ScheduledOccurrence per (template, day) that ran, and one
// Assignment per person staffed to it.
func materialize(capability solver.Capability, m *Model, window Window) ([]ScheduledOccurrence, []Assignment) {
	occByKey := make(map[[2]any]ScheduledOccurrence)
	var assignments []Assignment

	for key, v := range m.Assign {
		if !capability.BooleanValue(v) {
			continue
		}

		occKey := [2]any{key.Day, key.Template}
		occ, ok := occByKey[occKey]
		if !ok {
			start, end := timeutil.InstantOf(key.Day, templateStart(m.templates, key.Template), templateDuration(m.templates, key.Template))
			occ = ScheduledOccurrence{
				Template: key.Template,
				Day:      key.Day,
				Start:    window.Start + start,
				End:      window.Start + end,
			}
			occByKey[occKey] = occ
		}

		assignments = append(assignments, Assignment{Person: key.Person, Occurrence: occ})
	}

	occurrences := make([]ScheduledOccurrence, 0, len(occByKey))
	for _, occ := range occByKey {
		occurrences = append(occurrences, occ)
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Day != occurrences[j].Day {
			return occurrences[i].Day < occurrences[j].Day
		}
		return occurrences[i].Template < occurrences[j].Template
	})
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].Occurrence.Day != assignments[j].Occurrence.Day {
			return assignments[i].Occurrence.Day < assignments[j].Occurrence.Day
		}
		if assignments[i].Occurrence.Template != assignments[j].Occurrence.Template {
			return assignments[i].Occurrence.Template < assignments[j].Occurrence.Template
		}
		return assignments[i].Person < assignments[j].Person
	})

	return occurrences, assignments
}

func templateStart(templates []ShiftTemplate, id TemplateID) int {
	for _, t := range templates {
		if t.ID == id {
			return t.StartOfDaySeconds
		}
	}
	return 0
}

func templateDuration(templates []ShiftTemplate, id TemplateID) int {
	for _, t := range templates {
		if t.ID == id {
			return t.DurationSeconds
		}
	}
	return 0
}
