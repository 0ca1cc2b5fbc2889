package entity

import "time"

// Log actions.
const (
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
	ActionUse    = "use"
	ActionEmail  = "email"
)

// Tables referenced by log entries.
const (
	TableUsers     = "users"
	TableSuppliers = "suppliers"
	TableStock     = "yarn_stock"
	TableUsage     = "yarn_usage"
)

// LogEntry append-only record of a user action.
type LogEntry struct {
	ID          int64
	UserID      int64
	UserName    string
	ActionType  string
	TableName   string
	Description string
	CreatedAt   time.Time
}

// NewLogEntry builds an entry attributed to who.
func NewLogEntry(who Identity, action, table, description string) *LogEntry {
	return &LogEntry{
		UserID:      who.UserID,
		UserName:    who.Username,
		ActionType:  action,
		TableName:   table,
		Description: description,
		CreatedAt:   time.Now(),
	}
}
