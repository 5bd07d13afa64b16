package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userColumns() []string {
	return []string{"id", "name", "phone", "whatsapp_number", "payment_handle", "created_at"}
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	handle := "@lina"

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Lina", "+15551234567", nil, &handle).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(1), "Lina", "+15551234567", nil, "@lina", time.Now()))

	user, err := repo.Create(context.Background(), &CreateUserRequest{
		Name:          "Lina",
		Phone:         "+15551234567",
		PaymentHandle: &handle,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "Lina", user.Name)
	require.NotNil(t, user.PaymentHandle)
	assert.Equal(t, "@lina", *user.PaymentHandle)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	user, err := repo.GetByID(context.Background(), 99)

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRepository_GetByPhone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("+15551234567").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(1), "Lina", "+15551234567", nil, nil, time.Now()))

	user, err := repo.GetByPhone(context.Background(), "+15551234567")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Lina", user.Name)
}

func TestUser_ReminderPhone(t *testing.T) {
	whatsapp := "+15559998888"

	withWhatsApp := &User{Phone: "+15551234567", WhatsAppNumber: &whatsapp}
	assert.Equal(t, whatsapp, withWhatsApp.ReminderPhone())

	plain := &User{Phone: "+15551234567"}
	assert.Equal(t, "+15551234567", plain.ReminderPhone())
}

func TestService_Create_DuplicatePhone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(NewRepository(db))

	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("+15551234567").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(1), "Lina", "+15551234567", nil, nil, time.Now()))

	_, err = svc.Create(context.Background(), &CreateUserRequest{
		Name:  "Other Lina",
		Phone: "+15551234567",
	})

	assert.ErrorIs(t, err, ErrPhoneAlreadyInUse)
}
