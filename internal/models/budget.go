package models

// StringList is a list of ids stored as a JSON text column.
type StringList []string

// Contains reports whether id is in the list.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Budget is a named ledger of entries with a shareable join code.
// The owner has exclusive ownership; collaborators only gain access.
type Budget struct {
	Base
	Name          string        `gorm:"not null" json:"name"`
	Code          string        `gorm:"size:8;uniqueIndex;not null" json:"code"`
	OwnerID       string        `gorm:"size:36;not null;index" json:"ownerId"`
	Collaborators StringList    `gorm:"type:text;serializer:json" json:"collaborators"`
	Entries       []BudgetEntry `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"entries"`
}

// Clone returns a deep copy of the budget.
func (b Budget) Clone() Budget {
	out := b
	if b.Collaborators != nil {
		out.Collaborators = append(StringList(nil), b.Collaborators...)
	}
	if b.Entries != nil {
		out.Entries = make([]BudgetEntry, len(b.Entries))
		copy(out.Entries, b.Entries)
	}
	return out
}

// CanAccess reports whether userID owns or collaborates on the budget.
func (b *Budget) CanAccess(userID string) bool {
	return userID != "" && (b.OwnerID == userID || b.Collaborators.Contains(userID))
}

// EntryIndex returns the position of the entry with id, or -1.
func (b *Budget) EntryIndex(id string) int {
	for i := range b.Entries {
		if b.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// UsesCategory reports whether any entry references the category name.
func (b *Budget) UsesCategory(name string) bool {
	for _, e := range b.Entries {
		if e.Category == name {
			return true
		}
	}
	return false
}
