package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&Company{},
		&User{},

		// 2. Tables depending on Company/User
		&Membership{},
		&Invite{},
		&ComplianceSettings{},
		&WorkerDayRule{},
		&WorkSession{},
		&TimeEvent{},
		&Incident{},

		// 3. Audit tables
		&TimeEntryLog{},
	}
}
