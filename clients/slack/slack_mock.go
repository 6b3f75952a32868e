package slack

import (
	"context"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/mock"
)

// MockSlackClient is a mock implementation of clients.SlackClient
type MockSlackClient struct {
	mock.Mock
}

func (m *MockSlackClient) SendMessage(ctx context.Context, roomID, text string) error {
	args := m.Called(ctx, roomID, text)
	return args.Error(0)
}

func (m *MockSlackClient) OpenDirectRoom(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSlackClient) LookupUserEmail(ctx context.Context, userRef string) (string, error) {
	args := m.Called(ctx, userRef)
	return args.String(0), args.Error(1)
}

func (m *MockSlackClient) PostBlocks(ctx context.Context, channelID, fallbackText string, blocks ...slack.Block) error {
	args := m.Called(ctx, channelID, fallbackText, blocks)
	return args.Error(0)
}

func (m *MockSlackClient) PostEphemeral(ctx context.Context, channelID, userID, text string, blocks ...slack.Block) error {
	args := m.Called(ctx, channelID, userID, text, blocks)
	return args.Error(0)
}

func (m *MockSlackClient) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	args := m.Called(ctx, triggerID, view)
	return args.Error(0)
}

func (m *MockSlackClient) PushView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	args := m.Called(ctx, triggerID, view)
	return args.Error(0)
}
