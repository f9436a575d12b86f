package types

// ApiResponse is the generic envelope used by the non-demo endpoints
// (health, statistics).
type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
}
