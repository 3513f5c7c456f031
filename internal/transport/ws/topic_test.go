package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopicRequiresTable(t *testing.T) {
	_, err := newTopic(SubscribePayload{})
	assert.Error(t, err)
}

func TestNewTopicRejectsBadFilter(t *testing.T) {
	_, err := newTopic(SubscribePayload{Table: "likes", Filter: "image_id=abc"})
	assert.Error(t, err)

	_, err = newTopic(SubscribePayload{Table: "likes", Filter: "garbage"})
	assert.Error(t, err)
}

func TestTopicMatchesTableAndAction(t *testing.T) {
	top, err := newTopic(SubscribePayload{Table: "comments", Events: []string{"insert"}})
	require.NoError(t, err)

	assert.True(t, top.matches("comments", "INSERT", nil), "event names are case-insensitive")
	assert.False(t, top.matches("comments", "DELETE", nil))
	assert.False(t, top.matches("likes", "INSERT", nil))
}

func TestTopicWildcardEvents(t *testing.T) {
	top, err := newTopic(SubscribePayload{Table: "likes", Events: []string{"*"}})
	require.NoError(t, err)

	assert.True(t, top.matches("likes", "INSERT", nil))
	assert.True(t, top.matches("likes", "DELETE", nil))
}

func TestTopicFilterMatching(t *testing.T) {
	top, err := newTopic(SubscribePayload{Table: "comments", Filter: "image_id=eq.42"})
	require.NoError(t, err)

	assert.True(t, top.matches("comments", "INSERT", map[string]string{"image_id": "42"}))
	assert.False(t, top.matches("comments", "INSERT", map[string]string{"image_id": "7"}))
	assert.False(t, top.matches("comments", "INSERT", nil), "missing field never matches a filter")
}

func TestTopicKeyIdempotent(t *testing.T) {
	a, err := newTopic(SubscribePayload{Table: "likes", Events: []string{"INSERT"}, Filter: "image_id=eq.1"})
	require.NoError(t, err)
	b, err := newTopic(SubscribePayload{Table: "likes", Events: []string{"insert"}, Filter: "image_id=eq.1"})
	require.NoError(t, err)

	assert.Equal(t, a.key(), b.key())
}

func TestRecordFieldsFlattening(t *testing.T) {
	raw := json.RawMessage(`{"id":"abc","likes_count":3,"liked":true,"tags":["a","b"]}`)
	fields := recordFields(raw)

	assert.Equal(t, "abc", fields["id"])
	assert.Equal(t, "3", fields["likes_count"])
	assert.Equal(t, "true", fields["liked"])
	_, hasTags := fields["tags"]
	assert.False(t, hasTags, "non-scalar values are dropped")
}
