package entity

import (
	"context"
	"time"
)

const (
	CallStatusFollowUp   = "Follow-up Required"
	CallStatusInProgress = "In Progress"
	CallStatusClosed     = "Closed"

	DefaultCallFor = "New Inquiry"
)

type CallRecord struct {
	ID           int64  `json:"id"`
	Date         Date   `json:"date"`
	CustomerName string `json:"customerName"`
	MobileNumber string `json:"mobileNumber"`
	Remark       string `json:"remark"`
	CallFor      string `json:"callFor"`
	Remarks      string `json:"remarks"`
	Status       string `json:"status"`
}

type CallRecordFilter struct {
	Search   string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

type CallRecordRepositoryInterface interface {
	List(ctx context.Context, f CallRecordFilter) ([]CallRecord, error)
	Create(ctx context.Context, r *CallRecord) error
	Update(ctx context.Context, r *CallRecord) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
