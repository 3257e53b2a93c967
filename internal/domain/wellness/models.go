// Package wellness holds the persisted records around the analytics core:
// daily check-ins, surfaced pattern findings and per-user settings.
package wellness

// Models lists every table owned by this package, in migration order.
func Models() []any {
	return []any{
		&CheckIn{},
		&PatternFinding{},
		&UserSettings{},
	}
}
