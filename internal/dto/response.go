package dto

import "github.com/yokitheyo/coverart/internal/domain"

type StatusResponse struct {
	Message    string `json:"message"`
	OutputPath string `json:"output_path,omitempty"`
	Processing bool   `json:"processing"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func MapStatusToResponse(status domain.Status) *StatusResponse {
	return &StatusResponse{
		Message:    status.Message,
		OutputPath: status.OutputPath,
		Processing: status.Processing,
	}
}
