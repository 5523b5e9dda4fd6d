package models

// Pagination describes the paging metadata attached to every list response.
type Pagination struct {
	Page       int `json:"page" example:"1"`
	PageSize   int `json:"pageSize" example:"10"`
	Total      int `json:"total" example:"125"`
	TotalPages int `json:"totalPages" example:"13"`
}

// ListResponse is the canonical success envelope for list endpoints:
// {"success": true, "data": [...], "pagination": {...}}.
type ListResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ItemResponse wraps a single record in the same success envelope.
type ItemResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the canonical failure envelope for API errors.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message" example:"Error message describing the issue"`
}

// NewPagination computes TotalPages from the total record count.
func NewPagination(page, pageSize, total int) *Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}
