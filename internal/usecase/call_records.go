package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
)

type CallRecordInput struct {
	Date         *entity.Date `json:"date"`
	CustomerName string       `json:"customerName" validate:"max=200"`
	MobileNumber string       `json:"mobileNumber" validate:"notblank,max=20"`
	Remark       string       `json:"remark" validate:"notblank"`
	CallFor      string       `json:"callFor" validate:"max=100"`
	Remarks      string       `json:"remarks"`
	Status       string       `json:"status" validate:"omitempty,call_status"`
}

func (in CallRecordInput) record() *entity.CallRecord {
	r := &entity.CallRecord{
		CustomerName: strings.TrimSpace(in.CustomerName),
		MobileNumber: strings.TrimSpace(in.MobileNumber),
		Remark:       in.Remark,
		CallFor:      strings.TrimSpace(in.CallFor),
		Remarks:      in.Remarks,
		Status:       in.Status,
	}
	if in.Date != nil {
		r.Date = *in.Date
	}
	if r.CallFor == "" {
		r.CallFor = entity.DefaultCallFor
	}
	if r.Status == "" {
		r.Status = entity.CallStatusFollowUp
	}
	return r
}

type CallRecordStats struct {
	Total      int `json:"total"`
	InProgress int `json:"inProgress"`
	FollowUp   int `json:"followUp"`
	Closed     int `json:"closed"`
}

type CallRecordUseCase struct {
	Repo   entity.CallRecordRepositoryInterface
	Logger *zap.Logger
}

func NewCallRecordUseCase(repo entity.CallRecordRepositoryInterface, logger *zap.Logger) *CallRecordUseCase {
	return &CallRecordUseCase{Repo: repo, Logger: logger.Named("call-records")}
}

func (uc *CallRecordUseCase) List(ctx context.Context, f entity.CallRecordFilter) ([]entity.CallRecord, error) {
	records, err := uc.Repo.List(ctx, f)
	if err != nil {
		return nil, dbError("failed to list call records", err)
	}
	return records, nil
}

func (uc *CallRecordUseCase) Create(ctx context.Context, in CallRecordInput) (*entity.CallRecord, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	r := in.record()
	if err := uc.Repo.Create(ctx, r); err != nil {
		return nil, dbError("failed to create call record", err)
	}
	uc.Logger.Info("📞 call record saved", zap.Int64("id", r.ID))
	return r, nil
}

func (uc *CallRecordUseCase) Update(ctx context.Context, id int64, in CallRecordInput) (*entity.CallRecord, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	r := in.record()
	r.ID = id
	ok, err := uc.Repo.Update(ctx, r)
	if err != nil {
		return nil, dbError("failed to update call record", err)
	}
	if !ok {
		return nil, notFound("call record not found")
	}
	return r, nil
}

func (uc *CallRecordUseCase) Delete(ctx context.Context, id int64) error {
	ok, err := uc.Repo.Delete(ctx, id)
	if err != nil {
		return dbError("failed to delete call record", err)
	}
	if !ok {
		return notFound("call record not found")
	}
	return nil
}

func (uc *CallRecordUseCase) Stats(ctx context.Context) (*CallRecordStats, error) {
	records, err := uc.Repo.List(ctx, entity.CallRecordFilter{})
	if err != nil {
		return nil, dbError("failed to load call records", err)
	}
	stats := &CallRecordStats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case entity.CallStatusInProgress:
			stats.InProgress++
		case entity.CallStatusFollowUp:
			stats.FollowUp++
		case entity.CallStatusClosed:
			stats.Closed++
		}
	}
	return stats, nil
}
