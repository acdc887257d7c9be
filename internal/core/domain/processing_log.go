package domain

import "time"

type LogAction string

const (
	ActionUpload      LogAction = "upload"
	ActionExtractText LogAction = "extract_text"
	ActionSummarize   LogAction = "summarize"
	ActionExplain     LogAction = "explain"
)

type LogStatus string

const (
	LogSuccess LogStatus = "success"
	LogError   LogStatus = "error"
)

// ProcessingLog is an audit row for one pipeline action.
type ProcessingLog struct {
	ID           int64     `json:"id,omitempty"`
	DocumentID   string    `json:"document_id,omitempty"`
	Action       LogAction `json:"action"`
	Status       LogStatus `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
