package entity

// NoticeKind classifies the outcome shown to the user.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is the user-facing result of a flow.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}
