package user

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OnDocumentRoundTrip_ShouldPreserveInsertionOrder(t *testing.T) {
	doc := NewDocument()
	doc.Set("zoe", []Record{NewRecord(10, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))})
	doc.Set("alice", nil)
	doc.Set("bob", []Record{NewRecord(20, time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC))})

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, []string{"zoe", "alice", "bob"}, decoded.IDs())

	records, ok := decoded.Get("bob")
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, 20.0, records[0].Amount)

	records, ok = decoded.Get("alice")
	require.True(t, ok)
	assert.Empty(t, records)
}

func Test_OnUnmarshal_ShouldReadStoredWireFormat(t *testing.T) {
	raw := `{"alice":[{"timestamp":"2024-03-15T12:00:00Z","amount":30.5}]}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	records, ok := doc.Get("alice")
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, 30.5, records[0].Amount)
	assert.Equal(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), records[0].Created)
}

func Test_OnUnmarshal_ShouldRejectNonObjectInput(t *testing.T) {
	var doc Document
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &doc))
	assert.Error(t, json.Unmarshal([]byte(`{"alice":`), &doc))
}

func Test_OnSet_ShouldNotDuplicateExistingID(t *testing.T) {
	doc := NewDocument()
	doc.Set("alice", nil)
	doc.Set("alice", []Record{NewRecord(10, time.Now())})

	assert.Equal(t, []string{"alice"}, doc.IDs())
	assert.Equal(t, 1, doc.Len())
}

func Test_OnClone_ShouldNotAliasRecordLists(t *testing.T) {
	doc := NewDocument()
	doc.Set("alice", []Record{NewRecord(10, time.Now())})

	clone := doc.Clone()
	records, _ := clone.Get("alice")
	records[0].Amount = 999

	original, _ := doc.Get("alice")
	assert.Equal(t, 10.0, original[0].Amount)
}
