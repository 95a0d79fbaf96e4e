package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// UploadState gates the query flow of a session.
type UploadState int

const (
	NotUploaded UploadState = iota
	Uploaded
)

func (s UploadState) String() string {
	switch s {
	case NotUploaded:
		return "not_uploaded"
	case Uploaded:
		return "uploaded"
	default:
		return "unknown"
	}
}

func (s UploadState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *UploadState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseUploadState(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseUploadState(s string) (UploadState, error) {
	switch s {
	case "not_uploaded", "":
		return NotUploaded, nil
	case "uploaded":
		return Uploaded, nil
	default:
		return NotUploaded, fmt.Errorf("%w: upload state %q", ErrInvalidParameter, s)
	}
}

// Session is the per-user state shared by the upload and query flows.
type Session struct {
	ID           string      `json:"id"`
	UploadState  UploadState `json:"upload_state"`
	DocumentName string      `json:"document_name,omitempty"`
	Exchanges    []Exchange  `json:"exchanges,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// MarkUploaded records a confirmed upload. The state never goes back.
func (s *Session) MarkUploaded(documentName string) {
	s.UploadState = Uploaded
	s.DocumentName = documentName
}

// Clone returns a deep copy, so stores never share slices with callers.
func (s *Session) Clone() *Session {
	c := *s
	c.Exchanges = append([]Exchange(nil), s.Exchanges...)
	return &c
}

// Exchange is one query sent to the chat endpoint and what came back.
type Exchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Failed   bool      `json:"failed,omitempty"`
	AskedAt  time.Time `json:"asked_at"`
}
