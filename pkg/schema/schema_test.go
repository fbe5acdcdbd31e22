package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractConfig_ResolvedContainerPath(t *testing.T) {
	tests := []struct {
		name     string
		config   ExtractConfig
		expected string
	}{
		{name: "combined default", config: ExtractConfig{Mode: ExtractModeCombined}, expected: "/app/dist"},
		{name: "separate default", config: ExtractConfig{Mode: ExtractModeSeparate}, expected: "/dist"},
		{name: "empty mode uses combined", config: ExtractConfig{}, expected: "/app/dist"},
		{name: "explicit path wins", config: ExtractConfig{Mode: ExtractModeSeparate, ContainerPath: "/out"}, expected: "/out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.ResolvedContainerPath())
		})
	}
}
