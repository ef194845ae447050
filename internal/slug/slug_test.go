package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation collapsed", "Go: the good, the bad & the ugly!", "go-the-good-the-bad-the-ugly"},
		{"leading and trailing separators", "  --Hello--  ", "hello"},
		{"diacritics stripped", "Café au Lait", "cafe-au-lait"},
		{"vietnamese", "Bài viết đầu tiên", "bai-viet-dau-tien"},
		{"digits kept", "Top 10 Tips for 2024", "top-10-tips-for-2024"},
		{"already a slug", "already-a-slug", "already-a-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestMakeDeterministic(t *testing.T) {
	// Same title must always yield the same slug; duplicates are rejected at
	// creation, not disambiguated.
	assert.Equal(t, Make("Một Tiêu Đề"), Make("Một Tiêu Đề"))
	assert.Equal(t, Make("Hello, World"), Make("Hello World"))
}
