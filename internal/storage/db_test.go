package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil))
	})

	t.Run("no rows", func(t *testing.T) {
		assert.ErrorIs(t, translateError(sql.ErrNoRows), ErrNotFound)
	})

	t.Run("wrapped no rows", func(t *testing.T) {
		err := fmt.Errorf("scan: %w", sql.ErrNoRows)
		assert.ErrorIs(t, translateError(err), ErrNotFound)
	})

	t.Run("unique violation", func(t *testing.T) {
		err := translateError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.Contains(t, err.Error(), "users_email_key")
	})

	t.Run("other errors pass through", func(t *testing.T) {
		orig := errors.New("boom")
		assert.Equal(t, orig, translateError(orig))
	})
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", normalizeEmail("  Jane@Example.COM "))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, SplitList(" Go, SQL ,,Docker, "))
	assert.Equal(t, []string{}, SplitList(""))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("3f0b6a52-1c7e-4c8a-9a57-2b1f0e6f9d11"))
	assert.False(t, validID("64f1c2ab9e"))
	assert.False(t, validID(""))
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, ValidApplicationStatus(StatusHired))
	assert.False(t, ValidApplicationStatus("hired"))
	assert.True(t, ValidVerificationStatus(VerificationApproved))
	assert.False(t, ValidVerificationStatus("verified"))
	assert.True(t, ValidPaymentStatus(PaymentCompleted))
	assert.False(t, ValidPaymentStatus("Paid"))
}

func TestSortByScore(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	apps := []*Application{
		{ID: "a", Score: f(40)},
		{ID: "b", Score: nil},
		{ID: "c", Score: f(85.5)},
		{ID: "d", Score: f(40)},
		{ID: "e", Score: nil},
	}

	SortByScore(apps)

	var order []string
	for _, a := range apps {
		order = append(order, a.ID)
	}
	assert.Equal(t, []string{"c", "a", "d", "b", "e"}, order)
}
