// Package api contains API contract definitions for the EstatePulse service.
// Version v1 represents the current stable API version.
package api

// AnalyzeRequest represents a market analysis request. The query is
// free-form text naming one or more locations, optionally with a
// "last N years" window and intent keywords.
type AnalyzeRequest struct {
	Area string `json:"area" form:"area" validate:"required,min=1,max=500"`
}

// UploadResponse confirms a successful dataset upload.
type UploadResponse struct {
	Message string `json:"message"`
}
