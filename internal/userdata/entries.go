package userdata

import (
	"context"
	"sort"
	"strings"
	"time"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/pagination"
)

const dateLayout = "2006-01-02"

func (m *manager) validateEntry(in *EntryInput) error {
	if !in.Type.Valid() {
		return apperrors.ErrInvalidEntryType
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if in.Amount == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be zero")
	}
	if in.Date == "" {
		in.Date = m.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}
	return nil
}

// AddEntry records an entry in the active budget. In remote mode the entry
// is created remotely first and takes the id the store assigned; if that
// fails the context falls back to local mode for the rest of the session.
func (m *manager) AddEntry(ctx context.Context, in EntryInput) (*models.BudgetEntry, error) {
	if err := m.validateEntry(&in); err != nil {
		return nil, err
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, store, err := m.current()
	if err != nil {
		return nil, err
	}
	budget := next.ActiveBudget()
	if budget == nil {
		return nil, apperrors.ErrNoActiveBudget
	}

	entry := models.BudgetEntry{
		Base:        models.Base{ID: ids.New()},
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Amount:      models.SignedAmount(in.Amount, in.Type),
		Type:        in.Type,
		UserID:      next.ID,
		BudgetID:    budget.ID,
	}
	entry.Touch(m.now())

	id, ok := store.CreateEntry(ctx, &entry)
	switch {
	case !ok:
		m.demote("entry create failed")
	case id != "":
		entry.ID = id
	}

	budget.Entries = append(budget.Entries, entry)
	budget.Touch(m.now())
	m.commit(ctx, next)

	out := entry
	return &out, nil
}

// UpdateEntry replaces the editable fields of an entry in the active budget.
func (m *manager) UpdateEntry(ctx context.Context, entryID string, in EntryInput) (*models.BudgetEntry, error) {
	if err := m.validateEntry(&in); err != nil {
		return nil, err
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, store, err := m.current()
	if err != nil {
		return nil, err
	}
	budget := next.ActiveBudget()
	if budget == nil {
		return nil, apperrors.ErrNoActiveBudget
	}
	i := budget.EntryIndex(entryID)
	if i < 0 {
		return nil, apperrors.ErrEntryNotFound
	}

	e := &budget.Entries[i]
	e.Date = in.Date
	e.Description = strings.TrimSpace(in.Description)
	e.Category = in.Category
	e.Type = in.Type
	e.Amount = models.SignedAmount(in.Amount, in.Type)
	e.Touch(m.now())

	if !store.UpdateEntry(ctx, e) {
		m.log.Warnw("failed to sync entry update", "entry_id", entryID)
	}
	budget.Touch(m.now())
	m.commit(ctx, next)

	out := *e
	return &out, nil
}

// DeleteEntry removes an entry from the active budget.
func (m *manager) DeleteEntry(ctx context.Context, entryID string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, store, err := m.current()
	if err != nil {
		return err
	}
	budget := next.ActiveBudget()
	if budget == nil {
		return apperrors.ErrNoActiveBudget
	}
	i := budget.EntryIndex(entryID)
	if i < 0 {
		return apperrors.ErrEntryNotFound
	}

	if !store.DeleteEntry(ctx, entryID) {
		m.log.Warnw("failed to sync entry deletion", "entry_id", entryID)
	}
	budget.Entries = append(budget.Entries[:i], budget.Entries[i+1:]...)
	budget.Touch(m.now())
	m.commit(ctx, next)
	return nil
}

// ListEntries pages through the active budget's entries, newest date first.
func (m *manager) ListEntries(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetEntry], error) {
	budget, err := m.ActiveBudget()
	if err != nil {
		return nil, err
	}

	entries := budget.Entries
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	resp := pagination.Slice(entries, page)
	return &resp, nil
}

// Summary totals the active budget.
func (m *manager) Summary() (*Summary, error) {
	budget, err := m.ActiveBudget()
	if err != nil {
		return nil, err
	}

	s := &Summary{BudgetID: budget.ID, EntryCount: len(budget.Entries), ByCategory: []CategoryTotal{}}
	index := make(map[string]int)
	for _, e := range budget.Entries {
		amount := models.SignedAmount(e.Amount, e.Type)
		if e.Type == models.EntryTypeIncome {
			s.Income += amount
		} else {
			s.Expense -= amount
		}

		key := string(e.Type) + "/" + e.Category
		i, ok := index[key]
		if !ok {
			i = len(s.ByCategory)
			index[key] = i
			s.ByCategory = append(s.ByCategory, CategoryTotal{Category: e.Category, Type: e.Type})
		}
		s.ByCategory[i].Total += amount
	}
	s.Balance = s.Income - s.Expense
	return s, nil
}
