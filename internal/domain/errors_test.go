package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "5000", want: "5000"},
		{in: " 12.50 ", want: "12.5"},
		{in: "0.01", want: "0.01"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-10", wantErr: true},
		{in: "1e3", want: "1000"},
		{in: "1000000000000", want: "1000000000000"},
		{in: "1000000000000.01", wantErr: true},
		{in: "1e20000000", wantErr: true},
		{in: "1e2000000000", wantErr: true},
		{in: "1e-20000000", wantErr: true},
		{in: "0.001", wantErr: true},
		{in: strings.Repeat("9", 40), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)))
		})
	}
}

func TestParseAmount_Messages(t *testing.T) {
	tests := map[string]string{
		"1e20000000":    "Amount is too large",
		"5000000000000": "Amount is too large",
		"12.345":        "Amount can have at most 2 decimal places",
		"1e-20000000":   "Amount can have at most 2 decimal places",
		"-1e20000000":   "Amount must be greater than zero",
		"12.50.1":       "Please enter a valid amount",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "amount", ve.Field)
			assert.Equal(t, want, ve.Message)
		})
	}
}

func TestPersistenceError_Unwrap(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("append: %w", NewPersistenceError("insert saving", base))

	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, IsValidation(err))
	assert.Nil(t, NewPersistenceError("noop", nil))
}

func TestSavingEntry_JSONAmountIsNumber(t *testing.T) {
	e := SavingEntry{ID: "1", UserID: 7, Amount: decimal.RequireFromString("12.5"), Category: "Food", Date: time.Unix(0, 0).UTC()}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"amount":12.5`)
}

func TestBadge_JSONFlattensDescriptor(t *testing.T) {
	b := Badge{ID: "x", UserID: 1, BadgeDescriptor: BadgeDescriptor{Type: SuperSaver, Name: "Super Saver"}}
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"SUPER_SAVER"`)
	assert.Contains(t, string(raw), `"earnedDate"`)
}

func TestEarned(t *testing.T) {
	got := Earned([]Badge{{BadgeDescriptor: BadgeDescriptor{Type: FinanceGuru}}})
	assert.True(t, got[FinanceGuru])
	assert.False(t, got[SuperSaver])
	assert.True(t, WealthBuilder.Valid())
	assert.False(t, BadgeType("GOLD").Valid())
}
