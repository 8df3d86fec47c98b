package utils_test

import (
	"regexp"
	"testing"

	"github.com/darlington872/lastman55444-sub000/database/dbtest"
	"github.com/darlington872/lastman55444-sub000/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestGenerateReferralCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code := utils.GenerateReferralCode()
		require.Regexp(t, codePattern, code)
		seen[code] = true
	}
	require.Greater(t, len(seen), 190)
}

func TestGenerateUniqueReferralCode(t *testing.T) {
	db := dbtest.New(t)
	code, err := utils.GenerateUniqueReferralCode(db)
	require.NoError(t, err)
	require.Regexp(t, codePattern, code)
}

func TestValidatorDecimal(t *testing.T) {
	v := utils.NewValidator()
	type payload struct {
		Amount decimal.Decimal  `validate:"required,gt=0"`
		Floor  *decimal.Decimal `validate:"omitempty,gte=0"`
	}

	require.NoError(t, v.Struct(payload{Amount: decimal.RequireFromString("0.01")}))
	require.Error(t, v.Struct(payload{Amount: decimal.Zero}))
	require.Error(t, v.Struct(payload{Amount: decimal.NewFromInt(-3)}))

	negative := decimal.NewFromInt(-1)
	require.Error(t, v.Struct(payload{Amount: decimal.NewFromInt(1), Floor: &negative}))
	zero := decimal.Zero
	require.NoError(t, v.Struct(payload{Amount: decimal.NewFromInt(1), Floor: &zero}))
}
