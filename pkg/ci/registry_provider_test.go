package ci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newNamedMock(ctrl *gomock.Controller, name string, detected bool) *MockProvider {
	p := NewMockProvider(ctrl)
	p.EXPECT().Name().Return(name).AnyTimes()
	p.EXPECT().Detect().Return(detected).AnyTimes()
	return p
}

func TestRegistry_Detect(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(ctrl *gomock.Controller)
		expected string
	}{
		{
			name:     "nothing registered",
			setup:    func(*gomock.Controller) {},
			expected: "",
		},
		{
			name: "none detected",
			setup: func(ctrl *gomock.Controller) {
				Register(newNamedMock(ctrl, "github-actions", false))
			},
			expected: "",
		},
		{
			name: "first detected by name wins",
			setup: func(ctrl *gomock.Controller) {
				Register(newNamedMock(ctrl, "b", true))
				Register(newNamedMock(ctrl, "a", true))
				Register(newNamedMock(ctrl, "c", false))
			},
			expected: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			t.Cleanup(Reset)
			ctrl := gomock.NewController(t)
			tt.setup(ctrl)

			p := Detect()
			if tt.expected == "" {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, tt.expected, p.Name())
		})
	}
}
