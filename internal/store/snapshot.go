package store

import (
	"context"
	"fmt"

	"github.com/meet-when/shiftsched/internal/schedule"
	"github.com/meet-when/shiftsched/internal/timeutil"
)

// Snapshot loads the full entity graph the core consumes for one
// Solve call, following the query/scan shape of this codebase's
// per-entity repositories.
func (s *Store) Snapshot(ctx context.Context) (schedule.Snapshot, error) {
	groups, err := s.groups(ctx)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	persons, err := s.persons(ctx)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	templates, err := s.templates(ctx)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	links, err := s.groupShiftLinks(ctx)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	constraints, err := s.pairwiseConstraints(ctx)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	requests, err := s.timeOffRequests(ctx)
	if err != nil {
		return schedule.Snapshot{}, err
	}

	return schedule.Snapshot{
		Persons:             persons,
		Groups:              groups,
		Templates:           templates,
		GroupShiftLinks:     links,
		Requests:            requests,
		PairwiseConstraints: constraints,
	}, nil
}

func (s *Store) groups(ctx context.Context) ([]schedule.Group, error) {
	rows, err := s.db.QueryContext(ctx, q(s.driver, `SELECT id FROM groups ORDER BY id`))
	if err != nil {
		return nil, fmt.Errorf("store: groups: %w", err)
	}
	defer rows.Close()

	var out []schedule.Group
	for rows.Next() {
		var g schedule.Group
		if err := rows.Scan(&g.ID); err != nil {
			return nil, fmt.Errorf("store: scan group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) persons(ctx context.Context) ([]schedule.Person, error) {
	rows, err := s.db.QueryContext(ctx, q(s.driver, `SELECT id, group_id FROM persons ORDER BY id`))
	if err != nil {
		return nil, fmt.Errorf("store: persons: %w", err)
	}
	defer rows.Close()

	var out []schedule.Person
	for rows.Next() {
		var p schedule.Person
		if err := rows.Scan(&p.ID, &p.GroupID); err != nil {
			return nil, fmt.Errorf("store: scan person: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) templates(ctx context.Context) ([]schedule.ShiftTemplate, error) {
	rows, err := s.db.QueryContext(ctx, q(s.driver, `
		SELECT id, start_of_day_seconds, duration_seconds, required_count, description
		FROM shift_templates ORDER BY id
	`))
	if err != nil {
		return nil, fmt.Errorf("store: templates: %w", err)
	}
	defer rows.Close()

	var out []schedule.ShiftTemplate
	for rows.Next() {
		var t schedule.ShiftTemplate
		if err := rows.Scan(&t.ID, &t.StartOfDaySeconds, &t.DurationSeconds, &t.RequiredCount, &t.Description); err != nil {
			return nil, fmt.Errorf("store: scan template: %w", err)
		}
		weekdays, err := s.weekdaysFor(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Weekdays = weekdays
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) weekdaysFor(ctx context.Context, template schedule.TemplateID) (map[timeutil.Weekday]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, q(s.driver, `
		SELECT weekday FROM shift_template_weekdays WHERE template_id = $1
	`), template)
	if err != nil {
		return nil, fmt.Errorf("store: weekdays: %w", err)
	}
	defer rows.Close()

	out := make(map[timeutil.Weekday]struct{})
	for rows.Next() {
		var w int
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("store: scan weekday: %w", err)
		}
		out[timeutil.Weekday(w)] = struct{}{}
	}
	return out, rows.Err()
}

func (s *Store) groupShiftLinks(ctx context.Context) ([]schedule.GroupShiftLink, error) {
	rows, err := s.db.QueryContext(ctx, q(s.driver, `
		SELECT group_id, template_id FROM group_shift_links ORDER BY group_id, template_id
	`))
	if err != nil {
		return nil, fmt.Errorf("store: group shift links: %w", err)
	}
	defer rows.Close()

	var out []schedule.GroupShiftLink
	for rows.Next() {
		var l schedule.GroupShiftLink
		if err := rows.Scan(&l.Group, &l.Template); err != nil {
			return nil, fmt.Errorf("store: scan group shift link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) pairwiseConstraints(ctx context.Context) ([]schedule.PairwiseConstraint, error) {
	rows, err := s.db.QueryContext(ctx, q(s.driver, `
		SELECT from_template, to_template, within_last_shifts
		FROM pairwise_constraints ORDER BY from_template, to_template
	`))
	if err != nil {
		return nil, fmt.Errorf("store: pairwise constraints: %w", err)
	}
	defer rows.Close()

	var out []schedule.PairwiseConstraint
	for rows.Next() {
		var c schedule.PairwiseConstraint
		if err := rows.Scan(&c.From, &c.To, &c.K); err != nil {
			return nil, fmt.Errorf("store: scan pairwise constraint: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) timeOffRequests(ctx context.Context) ([]schedule.TimeOffRequest, error) {
	rows, err := s.db.QueryContext(ctx, q(s.driver, `
		SELECT person_id, start_instant, end_instant, description FROM time_off_requests ORDER BY person_id, start_instant
	`))
	if err != nil {
		return nil, fmt.Errorf("store: time off requests: %w", err)
	}
	defer rows.Close()

	var out []schedule.TimeOffRequest
	for rows.Next() {
		var r schedule.TimeOffRequest
		if err := rows.Scan(&r.Person, &r.Start, &r.End, &r.Description); err != nil {
			return nil, fmt.Errorf("store: scan time off request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PutGroup inserts or updates a group. It is used by cmd/scheduledemo
// and tests to seed a snapshot; the core never calls it.
func (s *Store) PutGroup(ctx context.Context, g schedule.Group) error {
	_, err := s.db.ExecContext(ctx, q(s.driver, `
		INSERT INTO groups (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`), g.ID)
	return err
}

// PutPerson inserts or updates a person.
func (s *Store) PutPerson(ctx context.Context, p schedule.Person) error {
	_, err := s.db.ExecContext(ctx, q(s.driver, `
		INSERT INTO persons (id, group_id) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET group_id = excluded.group_id
	`), p.ID, p.GroupID)
	return err
}

// PutTemplate inserts or updates a shift template and its weekday set.
func (s *Store) PutTemplate(ctx context.Context, t schedule.ShiftTemplate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: put template: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, q(s.driver, `
		INSERT INTO shift_templates (id, start_of_day_seconds, duration_seconds, required_count, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			start_of_day_seconds = excluded.start_of_day_seconds,
			duration_seconds = excluded.duration_seconds,
			required_count = excluded.required_count,
			description = excluded.description
	`), t.ID, t.StartOfDaySeconds, t.DurationSeconds, t.RequiredCount, t.Description); err != nil {
		return fmt.Errorf("store: put template: %w", err)
	}

	if _, err := tx.ExecContext(ctx, q(s.driver, `DELETE FROM shift_template_weekdays WHERE template_id = $1`), t.ID); err != nil {
		return fmt.Errorf("store: put template weekdays: %w", err)
	}
	for w := range t.Weekdays {
		if _, err := tx.ExecContext(ctx, q(s.driver, `
			INSERT INTO shift_template_weekdays (template_id, weekday) VALUES ($1, $2)
		`), t.ID, int(w)); err != nil {
			return fmt.Errorf("store: put template weekday: %w", err)
		}
	}

	return tx.Commit()
}

// PutGroupShiftLink inserts a group-template eligibility link.
func (s *Store) PutGroupShiftLink(ctx context.Context, l schedule.GroupShiftLink) error {
	_, err := s.db.ExecContext(ctx, q(s.driver, `
		INSERT INTO group_shift_links (group_id, template_id) VALUES ($1, $2)
		ON CONFLICT (group_id, template_id) DO NOTHING
	`), l.Group, l.Template)
	return err
}

// PutPairwiseConstraint inserts or updates a pairwise temporal
// exclusion between two templates.
func (s *Store) PutPairwiseConstraint(ctx context.Context, c schedule.PairwiseConstraint) error {
	_, err := s.db.ExecContext(ctx, q(s.driver, `
		INSERT INTO pairwise_constraints (from_template, to_template, within_last_shifts)
		VALUES ($1, $2, $3)
		ON CONFLICT (from_template, to_template) DO UPDATE SET within_last_shifts = excluded.within_last_shifts
	`), c.From, c.To, c.K)
	return err
}

// PutTimeOffRequest inserts a time-off request, assigning it id as its
// primary key (the core treats requests as unordered, so any unique
// string works).
func (s *Store) PutTimeOffRequest(ctx context.Context, id string, r schedule.TimeOffRequest) error {
	_, err := s.db.ExecContext(ctx, q(s.driver, `
		INSERT INTO time_off_requests (id, person_id, start_instant, end_instant, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			person_id = excluded.person_id,
			start_instant = excluded.start_instant,
			end_instant = excluded.end_instant,
			description = excluded.description
	`), id, r.Person, int64(r.Start), int64(r.End), r.Description)
	return err
}
