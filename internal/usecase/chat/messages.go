package chat

// User-facing texts of both flows.
const (
	MsgUploadSuccess   = "Document uploaded and indexed successfully!"
	MsgUploadFailed    = "Error uploading document!"
	MsgSelectFile      = "Please select a file to upload."
	MsgInvalidFile     = "This file cannot be uploaded: %s"
	MsgUploadFirst     = "Please upload a document first."
	MsgEnterQuestion   = "Please enter a question."
	MsgAnswerPrefix    = "AI Response: "
	MsgErrorPrefix     = "Error: "
	MsgUnreachable     = "Could not reach the server: %s"
	MsgMalformed       = "The server returned an unreadable response."
	MsgEmptyTranscript = "Nothing to export yet. Ask a question first."
)
