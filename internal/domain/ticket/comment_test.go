package ticket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComment(t *testing.T) {
	comment, err := NewComment(1, 3, "Looked at the switch, port 12 is dead", true)

	require.NoError(t, err)
	assert.Equal(t, uint(1), comment.TicketID())
	assert.Equal(t, uint(3), comment.AuthorID())
	assert.True(t, comment.IsInternal())
	assert.False(t, comment.CreatedAt().IsZero())
}

func TestNewComment_Validation(t *testing.T) {
	tests := []struct {
		name     string
		ticketID uint
		authorID uint
		content  string
	}{
		{"zero ticket", 0, 3, "content"},
		{"zero author", 1, 0, "content"},
		{"empty content", 1, 3, ""},
		{"content too long", 1, 3, strings.Repeat("x", 5001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComment(tt.ticketID, tt.authorID, tt.content, false)
			assert.Error(t, err)
		})
	}
}

func TestComment_SetID(t *testing.T) {
	comment, err := NewComment(1, 3, "content", false)
	require.NoError(t, err)

	require.NoError(t, comment.SetID(42))
	assert.Equal(t, uint(42), comment.ID())

	assert.Error(t, comment.SetID(43))
}

func TestComment_VisibleTo(t *testing.T) {
	internal, err := NewComment(1, 3, "internal note", true)
	require.NoError(t, err)
	public, err := NewComment(1, 3, "public note", false)
	require.NoError(t, err)

	assert.False(t, internal.VisibleTo(true))
	assert.True(t, internal.VisibleTo(false))
	assert.True(t, public.VisibleTo(true))
	assert.True(t, public.VisibleTo(false))
}
