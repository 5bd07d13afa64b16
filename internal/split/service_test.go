package split

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/billsplit/internal/order"
	"github.com/fkhayef/billsplit/internal/reminder"
	"github.com/fkhayef/billsplit/internal/split/calc"
	"github.com/fkhayef/billsplit/internal/user"
)

// fakeSender captures dispatched reminders instead of delivering them
type fakeSender struct {
	sent []reminder.Message
}

func (f *fakeSender) Send(_ context.Context, msg reminder.Message) (*reminder.Result, error) {
	f.sent = append(f.sent, msg)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &reminder.Result{
		Status:     "sent",
		MessageSID: "SM123",
		Recipient:  msg.RecipientPhone,
		SentAt:     &now,
	}, nil
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *fakeSender) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sender := &fakeSender{}
	svc := NewService(NewRepository(db), order.NewRepository(db), user.NewRepository(db), sender)
	return svc, mock, sender
}

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "restaurant", "total", "subtotal", "tax", "delivery_fee", "tip",
		"discount", "date", "paid_by_user_id", "image_url", "ocr_raw_text",
	}).AddRow(int64(42), "Shawarma House", 36.0, 30.0, 3.0, 2.0, 1.0, 0.0, time.Now(), int64(9), nil, nil)
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_id", "name", "price", "quantity"}).
		AddRow(int64(1), int64(42), "Falafel Wrap", 10.0, 1).
		AddRow(int64(2), int64(42), "Mixed Grill", 20.0, 1)
}

func TestCreateBulk_ComputesAndReplacesSplits(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM orders").WithArgs(int64(42)).WillReturnRows(orderRows())
	mock.ExpectQuery("SELECT (.+) FROM items").WithArgs(int64(42)).WillReturnRows(itemRows())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM splits").WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 0))

	// User 1: item 1 alone + half of item 2 = 20, fees 6 * 20/30 = 4 -> 24.00
	mock.ExpectQuery("INSERT INTO splits").
		WithArgs(int64(42), int64(1), sqlmock.AnyArg(), 24.0).
		WillReturnRows(sqlmock.NewRows(splitRowCols()).
			AddRow(int64(100), int64(42), int64(1), "{1,2}", 24.0, false, false, nil, nil))

	// User 2: half of item 2 = 10, fees 6 * 10/30 = 2 -> 12.00
	mock.ExpectQuery("INSERT INTO splits").
		WithArgs(int64(42), int64(2), sqlmock.AnyArg(), 12.0).
		WillReturnRows(sqlmock.NewRows(splitRowCols()).
			AddRow(int64(101), int64(42), int64(2), "{2}", 12.0, false, false, nil, nil))

	mock.ExpectCommit()

	splits, err := svc.CreateBulk(context.Background(), &BulkCreateRequest{
		OrderID: 42,
		Assignments: []ItemAssignment{
			{ItemID: 1, UserIDs: []int64{1}},
			{ItemID: 2, UserIDs: []int64{1, 2}},
		},
	})

	require.NoError(t, err)
	require.Len(t, splits, 2)
	assert.Equal(t, int64(1), splits[0].UserID)
	assert.Equal(t, 24.0, splits[0].AmountOwed)
	assert.Equal(t, []int64{1, 2}, splits[0].ItemIDs)
	assert.Equal(t, int64(2), splits[1].UserID)
	assert.Equal(t, 12.0, splits[1].AmountOwed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBulk_UnassignedItemFailsBeforeWriting(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM orders").WithArgs(int64(42)).WillReturnRows(orderRows())
	mock.ExpectQuery("SELECT (.+) FROM items").WithArgs(int64(42)).WillReturnRows(itemRows())
	// No transaction expected: validation fails before any write

	_, err := svc.CreateBulk(context.Background(), &BulkCreateRequest{
		OrderID: 42,
		Assignments: []ItemAssignment{
			{ItemID: 1, UserIDs: []int64{1}},
		},
	})

	var verr *calc.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, calc.CodeUnassignedItems, verr.Code)
	assert.Equal(t, []int64{2}, verr.ItemIDs)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBulk_OrderNotFound(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM orders").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.CreateBulk(context.Background(), &BulkCreateRequest{
		OrderID:     99,
		Assignments: []ItemAssignment{{ItemID: 1, UserIDs: []int64{1}}},
	})

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestSetPaid_NotFound(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("UPDATE splits").WithArgs(int64(7), true).
		WillReturnRows(sqlmock.NewRows(splitRowCols()))

	_, err := svc.SetPaid(context.Background(), 7, true)
	assert.ErrorIs(t, err, ErrSplitNotFound)
}

func TestSendReminder_ComposesAndRecordsDispatch(t *testing.T) {
	svc, mock, sender := newTestService(t)

	handle := "@omar-pays"
	whatsapp := "+15559998888"

	mock.ExpectQuery("SELECT (.+) FROM splits").WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(splitRowCols()).
			AddRow(int64(100), int64(42), int64(1), "{1,2}", 24.0, false, false, nil, nil))

	mock.ExpectQuery("SELECT (.+) FROM orders").WithArgs(int64(42)).WillReturnRows(orderRows())
	mock.ExpectQuery("SELECT (.+) FROM items").WithArgs(int64(42)).WillReturnRows(itemRows())

	// Payer lookup, then recipient lookup
	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs(int64(9)).
		WillReturnRows(userRow(9, "Omar", "+15551112222", nil, &handle))
	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs(int64(1)).
		WillReturnRows(userRow(1, "Lina", "+15551234567", &whatsapp, nil))

	mock.ExpectQuery("UPDATE splits").
		WithArgs(int64(100), sqlmock.AnyArg(), "SM123").
		WillReturnRows(sqlmock.NewRows(splitRowCols()).
			AddRow(int64(100), int64(42), int64(1), "{1,2}", 24.0, false, true, time.Now(), "SM123"))

	split, result, err := svc.SendReminder(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, "sent", result.Status)
	assert.True(t, split.ReminderSent)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	// WhatsApp number preferred over the plain phone
	assert.Equal(t, "+15559998888", msg.RecipientPhone)
	assert.Contains(t, msg.Body, "You owe Omar $24.00 for Shawarma House.")
	assert.Contains(t, msg.Body, "Falafel Wrap, Mixed Grill")
	assert.Contains(t, msg.Body, "@omar-pays")

	require.NoError(t, mock.ExpectationsWereMet())
}

func splitRowCols() []string {
	return []string{"id", "order_id", "user_id", "item_ids", "amount_owed", "paid_status", "reminder_sent", "reminder_sent_at", "message_sid"}
}

func userRow(id int64, name, phone string, whatsapp, handle *string) *sqlmock.Rows {
	var w, h interface{}
	if whatsapp != nil {
		w = *whatsapp
	}
	if handle != nil {
		h = *handle
	}
	return sqlmock.NewRows([]string{"id", "name", "phone", "whatsapp_number", "payment_handle", "created_at"}).
		AddRow(id, name, phone, w, h, time.Now())
}
