package dto

// APIKeyHeader carries the shared secret on every request except /health
const APIKeyHeader = "X-API-KEY"

// MessageResponse is returned by the enroll and unenroll endpoints
type MessageResponse struct {
	Message string `json:"message" example:"Enrolled"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Store  string `json:"store" example:"memory"`
}
