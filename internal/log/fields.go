package log

import (
	"maps"
	"slices"
)

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldDuration    = "duration_ms"
	FieldExpenseID   = "expense_id"
	FieldCategoryID  = "category_id"
	FieldAmountCents = "amount_cents"
	FieldDate        = "date"
	FieldFormat      = "format"
	FieldFilename    = "filename"
	FieldStrategy    = "strategy"
	FieldDestination = "destination"
	FieldRevision    = "revision"
	FieldFrequency   = "frequency"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStore    = "store"
	ComponentStorage  = "storage"
	ComponentTransfer = "transfer"
	ComponentDelivery = "delivery"
	ComponentSchedule = "schedule"
	ComponentSheets   = "sheets"
	ComponentAMQP     = "amqp"
	ComponentCache    = "cache"
	ComponentBackend  = "backend"
	ComponentCLI      = "cli"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpImport   = "import"
	OpExport   = "export"
	OpDeliver  = "deliver"
	OpPublish  = "publish"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error message; a nil error adds nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id string, amountCents int64, categoryID, date string) LogFields {
	f[FieldExpenseID] = id
	f[FieldAmountCents] = amountCents
	f[FieldCategoryID] = categoryID
	f[FieldDate] = date
	return f
}

// WithDelivery adds the export delivery outcome.
func (f LogFields) WithDelivery(strategy, destination string) LogFields {
	f[FieldStrategy] = strategy
	f[FieldDestination] = destination
	return f
}

// ToSlice converts LogFields to slog key/value pairs, sorted by key so that
// output is stable.
func (f LogFields) ToSlice() []any {
	keys := slices.Sorted(maps.Keys(f))
	out := make([]any, 0, len(f)*2)
	for _, k := range keys {
		out = append(out, k, f[k])
	}
	return out
}
