package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldOwnerID    = "owner_id"
	FieldViewerID   = "viewer_id"
	FieldRole       = "role"
	FieldRecordID   = "record_id"
	FieldCollection = "collection"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentRollup    = "rollup"
	ComponentReport    = "report"
	ComponentRecurring = "recurring"
	ComponentBackend   = "backend"
	ComponentCache     = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpList     = "list"
	OpApprove  = "approve"
	OpRollup   = "rollup"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
