package models

import "time"

// ProfileRecord is the normalized user_profiles row in the remote store.
type ProfileRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"not null" json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName pins the remote table name.
func (ProfileRecord) TableName() string { return "user_profiles" }

// UserProfile is the denormalized profile document held in memory by the
// data context and persisted whole to the local fallback store.
type UserProfile struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Budgets        []Budget   `json:"budgets"`
	Categories     []Category `json:"categories"`
	ActiveBudgetID string     `json:"activeBudgetId"`
}

// Clone returns a deep copy so callers can mutate it without touching the
// original (copy-on-write).
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	if p.Budgets != nil {
		out.Budgets = make([]Budget, len(p.Budgets))
		for i := range p.Budgets {
			out.Budgets[i] = p.Budgets[i].Clone()
		}
	}
	if p.Categories != nil {
		out.Categories = make([]Category, len(p.Categories))
		copy(out.Categories, p.Categories)
	}
	return &out
}

// BudgetIndex returns the position of the budget with id, or -1.
func (p *UserProfile) BudgetIndex(id string) int {
	for i := range p.Budgets {
		if p.Budgets[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveBudget returns the currently selected budget, or nil when the
// active id does not resolve.
func (p *UserProfile) ActiveBudget() *Budget {
	if i := p.BudgetIndex(p.ActiveBudgetID); i >= 0 {
		return &p.Budgets[i]
	}
	return nil
}

// CategoryIndex returns the position of the category with id, or -1.
func (p *UserProfile) CategoryIndex(id string) int {
	for i := range p.Categories {
		if p.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// ShareCodes returns the set of codes used by the profile's budgets.
func (p *UserProfile) ShareCodes() map[string]bool {
	codes := make(map[string]bool, len(p.Budgets))
	for _, b := range p.Budgets {
		codes[b.Code] = true
	}
	return codes
}
