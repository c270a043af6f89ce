package dto

import "github.com/hearthfin/hearth_backend/internal/core/domain"

// PreviewImportRequest runs the parse/dedupe/categorize stages without
// writing anything.
type PreviewImportRequest struct {
	CSVContent  string `json:"csvContent" binding:"required"`
	BankConfig  string `json:"bankConfig" binding:"required"`
	AccountName string `json:"accountName" binding:"required"`
}

// ExecuteImportRequest runs the full import pipeline.
type ExecuteImportRequest struct {
	CSVContent  string `json:"csvContent" binding:"required"`
	BankConfig  string `json:"bankConfig" binding:"required"`
	AccountName string `json:"accountName" binding:"required"`
	Filename    string `json:"filename"`
}

// PreviewImportResponse carries the annotated rows back to the caller.
type PreviewImportResponse struct {
	Transactions []domain.RawTransaction `json:"transactions"`
}
