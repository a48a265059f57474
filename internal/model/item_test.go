package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDKeepsJSONKind(t *testing.T) {
	var items []TodoItem
	require.NoError(t, json.Unmarshal([]byte(`[{"id":7,"task":"a","done":false},{"id":"x-1","task":"b","done":true}]`), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "7", items[0].ID.String())
	assert.Equal(t, "x-1", items[1].ID.String())

	out, err := json.Marshal(items[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"task":"a","done":false}`, string(out))

	out, err = json.Marshal(items[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x-1","task":"b","done":true}`, string(out))
}

func TestItemIDRejectsObjects(t *testing.T) {
	var it TodoItem
	assert.Error(t, json.Unmarshal([]byte(`{"id":{"a":1}}`), &it))
}

func TestItemIDNullIsZero(t *testing.T) {
	var it TodoItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"task":"a"}`), &it))
	assert.True(t, it.ID.IsZero())
	assert.Equal(t, IntID(3), IntID(3))
}

func TestToggledReturnsCopy(t *testing.T) {
	it := TodoItem{ID: IntID(1), Task: "buy milk"}
	flipped := it.Toggled()
	assert.False(t, it.Done)
	assert.True(t, flipped.Done)
}

func TestSessionDisplayName(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.Equal(t, "ann", Session{Username: "ann"}.DisplayName())
	assert.Equal(t, "ann - Ann Lee", Session{Username: "ann", Name: "Ann Lee"}.DisplayName())
}

func TestReturnPath(t *testing.T) {
	assert.Equal(t, "/", At("/login").ReturnPath())
	from := At("/protected/list")
	assert.Equal(t, "/protected/list", Location{Pathname: "/login", From: &from}.ReturnPath())
}
