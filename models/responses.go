package models

const StatusProcessedAndLogged = "PROCESSED_AND_LOGGED"

type IntakeResponse struct {
	EventID int64  `json:"eventId"`
	Status  string `json:"status"`
}

type PurgeResponse struct {
	User         string `json:"user"`
	DeletedCount int64  `json:"deletedCount"`
}

// ErrorResponse is the body of every non-2xx answer. Message is only filled
// for client errors.
type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Path      string `json:"path"`
}
