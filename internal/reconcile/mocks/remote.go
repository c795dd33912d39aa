// Package mocks provides testify mocks for the reconcile package's
// collaborator interfaces.
package mocks

import (
	"context"

	"github.com/hyphenhq/hyphen/internal/queue"
	"github.com/hyphenhq/hyphen/internal/reconcile"
	"github.com/stretchr/testify/mock"
)

// RemoteAuthority is a mock for reconcile.RemoteAuthority.
type RemoteAuthority struct {
	mock.Mock
}

func (m *RemoteAuthority) Push(ctx context.Context, entry *queue.Entry) (reconcile.PushResult, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(reconcile.PushResult), args.Error(1)
}
