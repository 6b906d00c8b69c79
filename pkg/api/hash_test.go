package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Hash(t *testing.T) {
	base := Document{
		CreatedAt: "2024-03-01",
		Name:      "welcome.md",
		Content:   "# Hello",
	}

	t.Run("identical documents produce identical hashes", func(t *testing.T) {
		d1 := base
		d2 := base
		assert.Equal(t, d1.Hash(), d2.Hash())
	})

	t.Run("content change alters hash", func(t *testing.T) {
		d := base
		d.Content = "# Hello!"
		assert.NotEqual(t, base.Hash(), d.Hash())
	})

	t.Run("field boundaries are delimited", func(t *testing.T) {
		d1 := Document{Name: "ab", Content: "c"}
		d2 := Document{Name: "a", Content: "bc"}
		assert.NotEqual(t, d1.Hash(), d2.Hash())
	})
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest([]byte("x")), Digest([]byte("x")))
	assert.NotEqual(t, Digest([]byte("x")), Digest([]byte("y")))
	assert.Len(t, Digest(nil), 64)
}

func TestNewBlankDocument(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-03-02 05:00 in UTC+10 is still 2024-03-01 in UTC.
	now := time.Date(2024, 3, 2, 5, 0, 0, 0, loc)

	d := NewBlankDocument(now)
	assert.Equal(t, "2024-03-01", d.CreatedAt)
	assert.Equal(t, DefaultDocumentName, d.Name)
	assert.Empty(t, d.Content)
}

func TestCloneDocuments(t *testing.T) {
	src := []Document{{Name: "a"}, {Name: "b"}}
	cp := CloneDocuments(src)
	cp[0].Name = "changed"
	assert.Equal(t, "a", src[0].Name)
	assert.Nil(t, CloneDocuments(nil))
}
