package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of every fixture auth user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAuthUser creates an identity with a unique email.
func CreateTestAuthUser(t *testing.T, db *gorm.DB) *models.AuthUser {
	t.Helper()
	return CreateTestAuthUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", nextID()))
}

// CreateTestAuthUserWithEmail creates an identity with the given email and TestPassword.
func CreateTestAuthUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.AuthUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.AuthUser{Email: email, PasswordHash: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test auth user: %v", err)
	}
	return user
}

// CreateTestProfile creates a user_profiles row.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID, email string) *models.ProfileRecord {
	t.Helper()

	rec := &models.ProfileRecord{ID: userID, Email: email, Name: "Test User"}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return rec
}

// CreateTestBudget creates a budget owned by ownerID shared with collaborators.
func CreateTestBudget(t *testing.T, db *gorm.DB, ownerID string, collaborators ...string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Name:          fmt.Sprintf("Test Budget %d", nextID()),
		Code:          ids.NewShareCode(),
		OwnerID:       ownerID,
		Collaborators: models.StringList(collaborators),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestEntry creates an entry in budgetID. The amount sign follows entryType.
func CreateTestEntry(t *testing.T, db *gorm.DB, userID, budgetID string, entryType models.EntryType, amount float64) *models.BudgetEntry {
	t.Helper()

	entry := &models.BudgetEntry{
		Date:        "2024-01-15",
		Description: fmt.Sprintf("Test Entry %d", nextID()),
		Category:    "Outros",
		Amount:      models.SignedAmount(amount, entryType),
		Type:        entryType,
		UserID:      userID,
		BudgetID:    budgetID,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
		Color:  "#22C55E",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}
