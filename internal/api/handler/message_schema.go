package handler

// --- Request / Response types ---

// sendMessageRequest is the body of POST /messages/new. Each field must be
// present; empty strings are passed through and an unknown recipient is
// reported by the workflow.
type sendMessageRequest struct {
	Title     *string `json:"title"     validate:"required"`
	Body      *string `json:"body"      validate:"required"`
	Recipient *string `json:"recipient" validate:"required"`
}

// messageResponse is one element of the listing endpoints. The body travels
// as "message".
type messageResponse struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
