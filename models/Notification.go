package models

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notification is a transient, dismissible message for the browser.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func Success(msg string) *Notification { return &Notification{Message: msg, Severity: SeveritySuccess} }
func Failure(msg string) *Notification { return &Notification{Message: msg, Severity: SeverityError} }
func Warning(msg string) *Notification { return &Notification{Message: msg, Severity: SeverityWarning} }
func Info(msg string) *Notification    { return &Notification{Message: msg, Severity: SeverityInfo} }
