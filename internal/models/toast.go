package models

const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastWarning = "warning"
	ToastInfo    = "info"

	DefaultToastDuration = 5000
)

type Toast struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Message    string `json:"message,omitempty"`
	DurationMS int    `json:"duration_ms"`
}

func NewToast(kind, title, message string) Toast {
	return Toast{Type: kind, Title: title, Message: message, DurationMS: DefaultToastDuration}
}
