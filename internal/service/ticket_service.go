package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/warrantydesk/tracking-service/internal/errs"
	"github.com/warrantydesk/tracking-service/internal/model"
	"gorm.io/gorm"
)

// TicketReader is the lookup surface the handlers depend on.
type TicketReader interface {
	ByTrackingCode(ctx context.Context, code string) (*model.Ticket, error)
	StatusByTrackingCode(ctx context.Context, code string) (*TicketStatusSummary, error)
	TrackingCodes(ctx context.Context) ([]TrackingCodeSummary, error)
}

// TrackingCodeSummary is one row of the tracking-code listing.
type TrackingCodeSummary struct {
	TrackingCode string             `json:"tracking_code"`
	Status       model.TicketStatus `json:"status"`
	IssueType    string             `json:"issue_type"`
	CreatedAt    time.Time          `json:"created_at"`
}

// TicketStatusSummary is the lightweight status-only projection.
type TicketStatusSummary struct {
	ID     uint64             `json:"id"`
	Status model.TicketStatus `json:"status"`
}

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

// ByTrackingCode loads a ticket with its user, purchase, product and the
// optional manager action and appointment. The optional rows being absent
// means the ticket has not reached that step yet, never an error.
func (s *TicketService) ByTrackingCode(ctx context.Context, code string) (*model.Ticket, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errs.ErrMissingTrackingCode
	}
	if !model.IsValidTrackingCode(code) {
		return nil, errs.ErrInvalidTrackingCode
	}
	var t model.Ticket
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Purchase").
		Preload("Purchase.Product").
		Preload("ManagerAction").
		Preload("Appointment").
		Where("tracking_code = ?", strings.ToLower(code)).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	if !t.Status.Valid() {
		t.Status = model.StatusPending
	}
	return &t, nil
}

// StatusByTrackingCode fetches just the id and status. Used by polling
// clients that do not need the full join.
func (s *TicketService) StatusByTrackingCode(ctx context.Context, code string) (*TicketStatusSummary, error) {
	code = strings.TrimSpace(code)
	if !model.IsValidTrackingCode(code) {
		return nil, errs.ErrInvalidTrackingCode
	}
	var t model.Ticket
	err := s.db.WithContext(ctx).
		Select("id", "status").
		Where("tracking_code = ?", strings.ToLower(code)).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	if !t.Status.Valid() {
		t.Status = model.StatusPending
	}
	return &TicketStatusSummary{ID: t.ID, Status: t.Status}, nil
}

// TrackingCodes lists every issued tracking code, oldest first.
func (s *TicketService) TrackingCodes(ctx context.Context) ([]TrackingCodeSummary, error) {
	var tickets []model.Ticket
	err := s.db.WithContext(ctx).
		Select("tracking_code", "status", "issue_type", "created_at").
		Order("created_at ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	out := make([]TrackingCodeSummary, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TrackingCodeSummary{
			TrackingCode: t.TrackingCode,
			Status:       t.Status,
			IssueType:    t.IssueType,
			CreatedAt:    t.CreatedAt,
		})
	}
	return out, nil
}
