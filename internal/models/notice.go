package models

// Notice is the transient, auto-dismissing banner used for every
// user-facing error/info message. DismissAfterMs is a fixed local constant,
// never driven by server timing.
type Notice struct {
	Message        string `json:"message"`
	Kind           string `json:"kind"` // "error" or "success"
	DismissAfterMs int    `json:"dismiss_after_ms"`
}

const (
	NoticeDismissMs         = 3000
	WithdrawNoticeDismissMs = 2000
)

func ErrorNotice(message string) Notice {
	return Notice{Message: message, Kind: "error", DismissAfterMs: NoticeDismissMs}
}

func SuccessNotice(message string, dismissMs int) Notice {
	return Notice{Message: message, Kind: "success", DismissAfterMs: dismissMs}
}
