package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		goos     string
		goarch   string
		expected string
	}{
		{"linux", "amd64", "linux_x86_64"},
		{"linux", "386", "linux_x86"},
		{"linux", "arm64", "linux_aarch64"},
		{"darwin", "arm64", "darwin_arm64"},
		{"darwin", "amd64", "darwin_x86_64"},
		{"windows", "amd64", "windows_amd64"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ID(tt.goos, tt.goarch))
		assert.True(t, IsKnown(ID(tt.goos, tt.goarch)))
	}
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(LinuxX8664))
	assert.False(t, IsKnown("plan9_mips"))
}

func TestCurrent(t *testing.T) {
	assert.NotEmpty(t, Current())
}
