package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
)

func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("test_%d@example.sn", time.Now().UnixNano())
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:      fmt.Sprintf("testuser_%d", time.Now().UnixNano()%1000000),
		Email:         &email,
		PasswordHash:  &passwordHash,
		Role:          model.RoleStudent,
		EmailVerified: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

func WithPremiumFlag(isPremium bool) func(*model.User) {
	return func(u *model.User) {
		u.IsPremium = isPremium
	}
}

func TestSubscription(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		UserID:   userID,
		Plan:     model.PlanMonthly,
		Status:   model.SubscriptionStatusPending,
		TxRef:    fmt.Sprintf("cos-test-%d", time.Now().UnixNano()),
		Provider: model.ProviderWave,
		Amount:   "2500",
		Currency: "XOF",
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

func WithPlan(plan string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Plan = plan
	}
}

func WithStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

func WithTxRef(txRef string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.TxRef = txRef
	}
}

func WithPeriod(startAt time.Time, endAt *time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.StartAt = &startAt
		s.EndAt = endAt
	}
}

func TestDocument(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Document)) *model.Document {
	t.Helper()

	doc := &model.Document{
		UserID:  userID,
		Title:   fmt.Sprintf("Épreuve test %d", time.Now().UnixNano()%1000000),
		Subject: "maths",
		Level:   "bac-s1",
		Year:    2024,
		FileURL: "https://cdn.example.sn/documents/test.pdf",
		FileKey: "documents/test.pdf",
	}

	for _, opt := range opts {
		opt(doc)
	}

	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("Failed to create test document: %v", err)
	}

	return doc
}

func WithPremiumDoc(premium bool) func(*model.Document) {
	return func(d *model.Document) {
		d.Premium = premium
	}
}

func WithSubjectLevel(subject, level string) func(*model.Document) {
	return func(d *model.Document) {
		d.Subject = subject
		d.Level = level
	}
}

func TestQuiz(t *testing.T, db *gorm.DB, userID, documentID int64, opts ...func(*model.Quiz)) *model.Quiz {
	t.Helper()

	quiz := &model.Quiz{
		DocumentID: documentID,
		UserID:     userID,
		Title:      fmt.Sprintf("Quiz test %d", time.Now().UnixNano()%1000000),
		Status:     model.QuizStatusPending,
	}

	for _, opt := range opts {
		opt(quiz)
	}

	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("Failed to create test quiz: %v", err)
	}

	return quiz
}

func WithQuizStatus(status string) func(*model.Quiz) {
	return func(q *model.Quiz) {
		q.Status = status
	}
}
