package request

import "github.com/google/uuid"

// CalculateBonusesRequest represents a bonus calculation request
type CalculateBonusesRequest struct {
	StartDate string     `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string     `json:"end_date" binding:"required,datetime=2006-01-02"`
	VendorID  *uuid.UUID `json:"vendor_id"`
}

// BillingReportQuery holds the billing report query string
type BillingReportQuery struct {
	StartDate      string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate        string `form:"end_date" binding:"required,datetime=2006-01-02"`
	CaseNumber     string `form:"case_number"`
	VendorID       string `form:"vendor_id" binding:"omitempty,uuid"`
	ClientID       string `form:"client_id" binding:"omitempty,uuid"`
	VendorRUT      string `form:"vendor_rut"`
	WithBonus      bool   `form:"with_bonus"`
	BonusStartDate string `form:"bonus_start_date" binding:"omitempty,datetime=2006-01-02"`
	BonusEndDate   string `form:"bonus_end_date" binding:"omitempty,datetime=2006-01-02"`
	BonusVendorID  string `form:"bonus_vendor_id" binding:"omitempty,uuid"`
	Page           int    `form:"page"`
	PerPage        int    `form:"per_page"`
}

// InvoiceListQuery holds the invoice listing query string
type InvoiceListQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	VendorID  string `form:"vendor_id" binding:"omitempty,uuid"`
	ClientID  string `form:"client_id" binding:"omitempty,uuid"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
