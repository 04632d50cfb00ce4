package dto

// ChatRequest is a single free-text question about the current image.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the reply for one chat turn.
type ChatResponse struct {
	Reply string `json:"reply"`
}
