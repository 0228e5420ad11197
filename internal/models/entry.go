package models

import "math"

// EntryType is the direction of a budget entry.
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// BudgetEntry is a single income or expense line in a budget.
// Amount is signed: expenses are stored negative, income positive.
type BudgetEntry struct {
	Base
	Date        string    `gorm:"size:10;not null" json:"date"`
	Description string    `json:"description"`
	Category    string    `gorm:"not null" json:"category"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Type        EntryType `gorm:"not null" json:"type"`
	UserID      string    `gorm:"size:36;not null" json:"userId"`
	BudgetID    string    `gorm:"size:36;not null;index" json:"budgetId"`
}

// SignedAmount returns the magnitude of amount with the sign implied by t.
func SignedAmount(amount float64, t EntryType) float64 {
	if t == EntryTypeExpense {
		return -math.Abs(amount)
	}
	return math.Abs(amount)
}

// NormalizeAmount makes the stored sign agree with the entry type.
func (e *BudgetEntry) NormalizeAmount() {
	e.Amount = SignedAmount(e.Amount, e.Type)
}
