package store

// schemaStatements returns the CREATE TABLE statements for the given
// driver. SQLite and PostgreSQL agree closely enough on this schema's
// types (TEXT, INTEGER) that no driver-specific DDL branching is
// needed beyond IF NOT EXISTS, which both support.
func schemaStatements(driver string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS groups (
			id TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS persons (
			id TEXT PRIMARY KEY,
			group_id TEXT NOT NULL REFERENCES groups(id)
		)`,
		`CREATE TABLE IF NOT EXISTS shift_templates (
			id TEXT PRIMARY KEY,
			start_of_day_seconds INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			required_count INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS shift_template_weekdays (
			template_id TEXT NOT NULL REFERENCES shift_templates(id),
			weekday INTEGER NOT NULL,
			PRIMARY KEY (template_id, weekday)
		)`,
		`CREATE TABLE IF NOT EXISTS group_shift_links (
			group_id TEXT NOT NULL REFERENCES groups(id),
			template_id TEXT NOT NULL REFERENCES shift_templates(id),
			PRIMARY KEY (group_id, template_id)
		)`,
		`CREATE TABLE IF NOT EXISTS pairwise_constraints (
			from_template TEXT NOT NULL REFERENCES shift_templates(id),
			to_template TEXT NOT NULL REFERENCES shift_templates(id),
			within_last_shifts INTEGER NOT NULL,
			PRIMARY KEY (from_template, to_template)
		)`,
		`CREATE TABLE IF NOT EXISTS time_off_requests (
			id TEXT PRIMARY KEY,
			person_id TEXT NOT NULL REFERENCES persons(id),
			start_instant INTEGER NOT NULL,
			end_instant INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
	}
}
