package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/project-hub/internal/domain"
	"github.com/spec-kit/project-hub/internal/token"
)

// MockUserRepository implements repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockMailer implements mail.Dispatcher
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockMembers implements repository.ProjectMemberRepository
type MockMembers struct {
	mock.Mock
}

func (m *MockMembers) AddMember(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockMembers) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembers) RemoveMember(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

// MockTokenStore implements token.Store
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Create(ctx context.Context, purpose token.Purpose, subjectRef, projectID string, ttl time.Duration) (*token.Record, error) {
	args := m.Called(ctx, purpose, subjectRef, projectID, ttl)
	rec, _ := args.Get(0).(*token.Record)
	return rec, args.Error(1)
}

func (m *MockTokenStore) Redeem(ctx context.Context, value string) (*token.Record, error) {
	args := m.Called(ctx, value)
	rec, _ := args.Get(0).(*token.Record)
	return rec, args.Error(1)
}

func (m *MockTokenStore) Peek(ctx context.Context, value string) (*token.Record, error) {
	args := m.Called(ctx, value)
	rec, _ := args.Get(0).(*token.Record)
	return rec, args.Error(1)
}
