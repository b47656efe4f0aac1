// Package dto holds the outward-facing request and response shapes.
package dto

import "time"

// Response is the fixed envelope returned for every outcome of the signup
// endpoint. Exactly one of Data or Error is set.
type Response struct {
	Success   bool        `json:"success"`
	Data      *SignupData `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp string      `json:"timestamp" example:"2025-04-23T12:01:05Z"`
}

// SignupData is the success payload of a provisioned account.
type SignupData struct {
	Message              string `json:"message"`
	UserID               string `json:"userId"`
	Email                string `json:"email"`
	Role                 string `json:"role"`
	RequiresConfirmation bool   `json:"requiresConfirmation"`
	ProfileCreated       bool   `json:"profileCreated"`
	GroupAssigned        bool   `json:"groupAssigned"`
}

// NewSuccessResponse wraps a success payload in the envelope.
func NewSuccessResponse(data *SignupData) Response {
	return Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	}
}

// NewErrorResponse wraps an error and its structured details in the envelope.
func NewErrorResponse(message string, details interface{}) Response {
	return Response{
		Success:   false,
		Error:     message,
		Details:   details,
		Timestamp: now(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
