// Package response writes the gateway's JSON and file responses.
package response

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/futig/rag-client/internal/entity"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes data with the given status. The body is encoded before the
// header is sent so an encoding failure can still become a 500.
func JSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Notice returns a flow outcome. Rejections are user feedback, so they are 200 too.
func Notice(w http.ResponseWriter, n *entity.Notice) {
	JSON(w, http.StatusOK, n)
}

// Attachment sends an exported file as a download.
func Attachment(w http.ResponseWriter, file *entity.ExportedFile) error {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(file.Content)
	return err
}
