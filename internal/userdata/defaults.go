package userdata

import (
	"strings"
	"time"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// DefaultBudgetName is the name of the budget every new profile starts with.
const DefaultBudgetName = "Main Budget"

type starterCategory struct {
	name  string
	typ   models.CategoryType
	color string
	icon  string
}

var starterCategories = []starterCategory{
	{"Salário", models.CategoryTypeIncome, "#10B981", "💰"},
	{"Freelance", models.CategoryTypeIncome, "#3B82F6", "💼"},
	{"Investimentos", models.CategoryTypeIncome, "#8B5CF6", "📈"},
	{"Alimentação", models.CategoryTypeExpense, "#EF4444", "🍽️"},
	{"Transporte", models.CategoryTypeExpense, "#F59E0B", "🚗"},
	{"Moradia", models.CategoryTypeExpense, "#6366F1", "🏠"},
	{"Saúde", models.CategoryTypeExpense, "#EC4899", "🏥"},
	{"Lazer", models.CategoryTypeExpense, "#14B8A6", "🎮"},
}

// newDefaultProfile builds the profile of a user seen for the first time.
func newDefaultProfile(userID, email, name string, now time.Time) *models.UserProfile {
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	budget := newBudget(DefaultBudgetName, userID, nil, now)

	categories := make([]models.Category, 0, len(starterCategories))
	for _, sc := range starterCategories {
		c := models.Category{
			Base:   models.Base{ID: ids.New()},
			UserID: userID,
			Name:   sc.name,
			Type:   sc.typ,
			Color:  sc.color,
			Icon:   sc.icon,
		}
		c.Touch(now)
		categories = append(categories, c)
	}

	return &models.UserProfile{
		ID:             userID,
		Email:          email,
		Name:           name,
		Budgets:        []models.Budget{budget},
		Categories:     categories,
		ActiveBudgetID: budget.ID,
	}
}

// newBudget returns an empty budget with a share code not in taken.
func newBudget(name, ownerID string, taken map[string]bool, now time.Time) models.Budget {
	b := models.Budget{
		Base:          models.Base{ID: ids.New()},
		Name:          name,
		Code:          ids.NewUniqueShareCode(taken),
		OwnerID:       ownerID,
		Collaborators: models.StringList{},
		Entries:       []models.BudgetEntry{},
	}
	b.Touch(now)
	return b
}
