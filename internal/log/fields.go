package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldDate          = "date"
	FieldType          = "tx_type"
	FieldCategory      = "category"
	FieldAmountCents   = "amount_cents"
	FieldReportType    = "report_type"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldJurisdiction  = "jurisdiction"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentReport  = "report"
	ComponentAMQP    = "amqp"
	ComponentExport  = "export"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpQuery    = "query"
	OpSearch   = "search"
	OpReport   = "report"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
