package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category labels entries. Entries reference categories by name, not id.
type Category struct {
	Base
	UserID      string       `gorm:"size:36;not null;index" json:"userId"`
	Name        string       `gorm:"not null" json:"name"`
	Type        CategoryType `gorm:"not null" json:"type"`
	Color       string       `json:"color"`
	Icon        string       `json:"icon"`
	Description string       `json:"description,omitempty"`
}
