package mocks

import (
	"context"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
)

type MockUserDirectory struct {
	domain.UserDirectory
	EmailByUserIdFunc func(ctx context.Context, userID int) (string, error)
}

func (m *MockUserDirectory) EmailByUserId(ctx context.Context, userID int) (string, error) {
	return m.EmailByUserIdFunc(ctx, userID)
}
