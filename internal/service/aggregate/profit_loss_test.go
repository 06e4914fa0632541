package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

func tx(month time.Month, day int, kind models.TransactionKind, category, amount string) models.Transaction {
	return models.Transaction{Date: models.DateOf(2024, month, day), Kind: kind, Category: category, Amount: dec(amount)}
}

func TestMonthly(t *testing.T) {
	txs := []models.Transaction{
		tx(time.April, 2, models.KindIncome, "Revenue", "500"),
		tx(time.March, 1, models.KindIncome, "Revenue", "1000"),
		tx(time.March, 5, models.KindExpense, "Ads", "400"),
		tx(time.March, 9, models.KindExpense, "Tools", "100"),
		{Kind: models.KindIncome, Amount: dec("999")},
	}

	got := Monthly(txs)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03", got[0].Month)
	assert.True(t, got[0].Income.Equal(dec("1000")))
	assert.True(t, got[0].Expenses.Equal(dec("500")))
	assert.True(t, got[0].NetProfit.Equal(dec("500")))
	assert.Equal(t, "2024-04", got[1].Month)
	assert.True(t, got[1].NetProfit.Equal(dec("500")))
}

func TestCategories(t *testing.T) {
	txs := []models.Transaction{
		tx(time.March, 1, models.KindExpense, "Tools", "100"),
		tx(time.March, 2, models.KindExpense, "Ads", "400"),
		tx(time.March, 3, models.KindExpense, "", "5"),
		tx(time.March, 4, models.KindExpense, "Tools", "300"),
		tx(time.March, 5, models.KindIncome, "Revenue", "1000"),
	}

	// Tools and Ads tie at 400; Tools was seen first.
	got := Categories(txs, models.KindExpense)
	require.Len(t, got, 3)
	assert.Equal(t, "Tools", got[0].Category)
	assert.Equal(t, 2, got[0].Count)
	assert.True(t, got[0].Amount.Equal(dec("400")))
	assert.Equal(t, "Ads", got[1].Category)
	assert.Equal(t, 1, got[1].Count)
	assert.Equal(t, "Uncategorized", got[2].Category)
}
