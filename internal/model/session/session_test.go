package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "siplog/internal/config"
	"siplog/internal/entity/user"
	"siplog/internal/model/customerr"
	"siplog/internal/model/storage"
)

var t0 = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, overwrite bool, ids ...string) (*Service, *storage.InMemStorage) {
	t.Helper()
	store := storage.NewInMemStorage()

	doc := user.NewDocument()
	for _, id := range ids {
		doc.Set(id, []user.Record{user.NewRecord(10, t0)})
	}
	require.NoError(t, store.SaveUsers(doc))

	return New(&appconfig.AppConfig{OverwriteUsers: overwrite}, store), store
}

func Test_OnCreate_ShouldRegisterUserWithEmptyList(t *testing.T) {
	svc, _ := newService(t, false)

	created, err := svc.Create("bob")
	require.NoError(t, err)
	assert.Empty(t, created)

	records, found, err := svc.Lookup("bob")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, records)
}

func Test_OnCreate_ShouldKeepExistingHistoryByDefault(t *testing.T) {
	svc, _ := newService(t, false, "alice")

	records, err := svc.Create("alice")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func Test_OnCreate_ShouldResetHistoryWhenOverwriteEnabled(t *testing.T) {
	svc, _ := newService(t, true, "alice")

	records, err := svc.Create("alice")
	require.NoError(t, err)
	assert.Empty(t, records)

	records, found, err := svc.Lookup("alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, records)
}

func Test_OnCreate_ShouldRejectEmptyID(t *testing.T) {
	svc, _ := newService(t, false)

	_, err := svc.Create("")
	var invalid *customerr.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func Test_OnLookup_ShouldBeCaseSensitive(t *testing.T) {
	svc, _ := newService(t, false, "alice")

	_, found, err := svc.Lookup("Alice")
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_OnSuggest_ShouldMatchCaseInsensitiveSubstringInOrder(t *testing.T) {
	svc, _ := newService(t, false, "alice", "bob", "ALex")

	suggestions, err := svc.Suggest("AL")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "ALex"}, suggestions)
}

func Test_OnSuggest_ShouldReturnNothingForEmptyInput(t *testing.T) {
	svc, _ := newService(t, false, "alice", "bob")

	suggestions, err := svc.Suggest("")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func Test_OnAppend_ShouldPersistRecordWithNowTimestamp(t *testing.T) {
	svc, store := newService(t, false, "alice")
	now := t0.Add(time.Hour)

	rec, err := svc.Append("alice", 20.5, now)
	require.NoError(t, err)
	assert.Equal(t, now, rec.Created)
	assert.Equal(t, 20.5, rec.Amount)

	doc, err := store.LoadUsers()
	require.NoError(t, err)
	records, _ := doc.Get("alice")
	require.Len(t, records, 2)
	assert.Equal(t, 20.5, records[1].Amount)
}

func Test_OnAppend_ShouldRejectNegativeAmount(t *testing.T) {
	svc, store := newService(t, false, "alice")

	_, err := svc.Append("alice", -1, t0)
	var invalid *customerr.InvalidInputError
	assert.ErrorAs(t, err, &invalid)

	doc, err := store.LoadUsers()
	require.NoError(t, err)
	records, _ := doc.Get("alice")
	assert.Len(t, records, 1)
}

func Test_OnAppend_ShouldFailForUnknownUser(t *testing.T) {
	svc, _ := newService(t, false)

	_, err := svc.Append("nobody", 10, t0)
	assert.Error(t, err)
}
