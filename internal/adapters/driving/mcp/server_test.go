package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RequiresSearchService(t *testing.T) {
	_, err := NewServer(&Ports{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSearchService)
}

func TestNewServer_ChatAndSettingsOptional(t *testing.T) {
	server, err := NewServer(&Ports{Search: &mockSearchService{}})

	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   Ports
		wantErr error
	}{
		{
			name:    "missing search",
			ports:   Ports{Chat: &mockChatService{}},
			wantErr: ErrMissingSearchService,
		},
		{
			name:  "search only",
			ports: Ports{Search: &mockSearchService{}},
		},
		{
			name: "fully wired",
			ports: Ports{
				Search:   &mockSearchService{},
				Chat:     &mockChatService{},
				Settings: &mockSettingsService{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
