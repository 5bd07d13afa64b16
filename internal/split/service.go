package split

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/billsplit/internal/order"
	"github.com/fkhayef/billsplit/internal/reminder"
	"github.com/fkhayef/billsplit/internal/split/calc"
	"github.com/fkhayef/billsplit/internal/user"
)

// Common errors
var (
	ErrSplitNotFound = errors.New("split not found")
	ErrNoSplits      = errors.New("no splits found for this order")
)

// Service handles split business logic
type Service struct {
	repo      *Repository
	orderRepo *order.Repository
	userRepo  *user.Repository
	sender    reminder.Sender
}

// NewService creates a new split service with dependencies injected
func NewService(repo *Repository, orderRepo *order.Repository, userRepo *user.Repository, sender reminder.Sender) *Service {
	return &Service{
		repo:      repo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		sender:    sender,
	}
}

// CreateBulk computes every user's share from the item assignments and
// atomically replaces the order's splits with the result. Re-running with new
// assignments (the user went back and re-assigned) is safe.
//
// The calculation itself is pure: item costs divide evenly among assignees,
// order-level fees distribute proportionally to each user's item subtotal.
// Assignment problems surface as *calc.ValidationError before anything is
// written.
func (s *Service) CreateBulk(ctx context.Context, req *BulkCreateRequest) ([]*Split, error) {
	ord, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, order.ErrOrderNotFound
	}

	items := make([]calc.Item, len(ord.Items))
	for i, item := range ord.Items {
		items[i] = calc.Item{
			ID:       item.ID,
			Price:    decimal.NewFromFloat(item.Price),
			Quantity: item.Quantity,
		}
	}

	assignments := make(calc.Assignments, len(req.Assignments))
	for _, a := range req.Assignments {
		assignments[a.ItemID] = append(assignments[a.ItemID], a.UserIDs...)
	}

	shares, err := calc.Compute(items, assignments, decimal.NewFromFloat(ord.Fees()))
	if err != nil {
		return nil, err
	}

	splits := make([]*Split, len(shares))
	for i, share := range shares {
		splits[i] = &Split{
			OrderID:    req.OrderID,
			UserID:     share.UserID,
			ItemIDs:    share.ItemIDs,
			AmountOwed: share.AmountOwed.InexactFloat64(),
		}
	}

	return s.repo.ReplaceForOrder(ctx, req.OrderID, splits)
}

// ListByOrderID retrieves all splits for an order
func (s *Service) ListByOrderID(ctx context.Context, orderID int64) ([]*Split, error) {
	return s.repo.ListByOrderID(ctx, orderID)
}

// SetPaid marks a split as paid or unpaid
func (s *Service) SetPaid(ctx context.Context, id int64, paid bool) (*Split, error) {
	updated, err := s.repo.UpdatePaidStatus(ctx, id, paid)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrSplitNotFound
	}
	return updated, nil
}

// SendReminder composes and dispatches a payment reminder for one split,
// then records the dispatch on the split
func (s *Service) SendReminder(ctx context.Context, splitID int64) (*Split, *reminder.Result, error) {
	sp, err := s.repo.GetByID(ctx, splitID)
	if err != nil {
		return nil, nil, err
	}
	if sp == nil {
		return nil, nil, ErrSplitNotFound
	}

	ord, err := s.orderRepo.GetByID(ctx, sp.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if ord == nil {
		return nil, nil, order.ErrOrderNotFound
	}

	payer, err := s.userRepo.GetByID(ctx, ord.PaidByUserID)
	if err != nil {
		return nil, nil, err
	}
	if payer == nil {
		return nil, nil, user.ErrUserNotFound
	}

	return s.remind(ctx, sp, ord, payer)
}

// SendAllReminders dispatches reminders to every unpaid split of the order
func (s *Service) SendAllReminders(ctx context.Context, orderID int64) ([]*reminder.Result, error) {
	ord, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, order.ErrOrderNotFound
	}

	payer, err := s.userRepo.GetByID(ctx, ord.PaidByUserID)
	if err != nil {
		return nil, err
	}
	if payer == nil {
		return nil, user.ErrUserNotFound
	}

	splits, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(splits) == 0 {
		return nil, ErrNoSplits
	}

	var results []*reminder.Result
	for _, sp := range splits {
		if sp.PaidStatus {
			continue
		}
		_, result, err := s.remind(ctx, sp, ord, payer)
		if err != nil {
			// A missing recipient or gateway failure for one split should
			// not block the rest of the order's reminders
			results = append(results, &reminder.Result{
				Status: "failed",
				Error:  err.Error(),
			})
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

// remind composes, sends and records one reminder
func (s *Service) remind(ctx context.Context, sp *Split, ord *order.Order, payer *user.User) (*Split, *reminder.Result, error) {
	recipient, err := s.userRepo.GetByID(ctx, sp.UserID)
	if err != nil {
		return nil, nil, err
	}
	if recipient == nil {
		return nil, nil, fmt.Errorf("split %d: %w", sp.ID, user.ErrUserNotFound)
	}

	assigned := make(map[int64]bool, len(sp.ItemIDs))
	for _, id := range sp.ItemIDs {
		assigned[id] = true
	}
	var itemNames []string
	for _, item := range ord.Items {
		if assigned[item.ID] {
			itemNames = append(itemNames, item.Name)
		}
	}

	method := ""
	if payer.PaymentHandle != nil {
		method = *payer.PaymentHandle
	}

	msg := reminder.Compose(reminder.Input{
		RecipientName:  recipient.Name,
		RecipientPhone: recipient.ReminderPhone(),
		PayerName:      payer.Name,
		Restaurant:     ord.Restaurant,
		Amount:         sp.AmountOwed,
		ItemNames:      itemNames,
		PaymentMethod:  method,
	})

	result, err := s.sender.Send(ctx, msg)
	if err != nil {
		return nil, nil, err
	}

	if result.Status == "sent" && result.SentAt != nil {
		updated, err := s.repo.MarkReminderSent(ctx, sp.ID, *result.SentAt, result.MessageSID)
		if err != nil {
			return nil, nil, err
		}
		if updated != nil {
			sp = updated
		}
	}

	return sp, result, nil
}

// Delete removes a split
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
