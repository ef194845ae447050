package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"vi", "vi"},
		{"ja,en;q=0.8", "ja"},
		{"vi-VN,vi;q=0.9,en;q=0.5", "vi"},
		{"fr-FR,fr;q=0.9", "en"},
		{"not a header", "en"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(tt.header), "header %q", tt.header)
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "article not found", T("en", "articles.article_not_found"))
	assert.Equal(t, "Không tìm thấy bài viết", T("vi", "articles.article_not_found"))

	// Unknown locale falls back to english.
	assert.Equal(t, "article not found", T("de", "articles.article_not_found"))
}

func TestTMissingKeyFallsBackToKey(t *testing.T) {
	// A translation gap must never abort the underlying operation.
	assert.Equal(t, "articles.no_such_key", T("vi", "articles.no_such_key"))
}
