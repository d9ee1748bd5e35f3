package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"siplog/internal/entity/user"
)

var t0 = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func records(entries ...user.Record) []user.Record {
	return entries
}

func Test_OnTotal_ShouldSumAllAmounts(t *testing.T) {
	recs := records(
		user.NewRecord(30, t0),
		user.NewRecord(20, t0.Add(90*time.Minute)),
	)

	assert.Equal(t, 50.0, Total(recs))
}

func Test_OnTotal_ShouldReturnZeroForEmptyList(t *testing.T) {
	assert.Equal(t, 0.0, Total(nil))
	assert.Equal(t, 0.0, Total([]user.Record{}))
}

func Test_OnRecent_ShouldExcludeRecordExactlyAtCutoff(t *testing.T) {
	now := t0.Add(2 * time.Hour)
	// the first record sits exactly at the 2h cutoff and must not count
	recs := records(
		user.NewRecord(10, t0),
		user.NewRecord(20, t0.Add(time.Second)),
		user.NewRecord(30, t0.Add(time.Hour)),
	)

	assert.Equal(t, 50.0, Recent(recs, 2, now))
}

func Test_OnRecent_ShouldNeverExceedTotal(t *testing.T) {
	recs := records(
		user.NewRecord(5, t0.Add(-30*time.Hour)),
		user.NewRecord(10, t0.Add(-10*time.Hour)),
		user.NewRecord(15, t0.Add(-time.Hour)),
	)

	for _, hours := range []int{1, 24, 100} {
		assert.LessOrEqual(t, Recent(recs, hours, t0), Total(recs))
	}
}

func Test_OnToday_ShouldSumSinceMidnight(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	recs := records(
		user.NewRecord(40, time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC)),
		user.NewRecord(10, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		user.NewRecord(20, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)),
	)

	assert.Equal(t, 30.0, Today(recs, now))
}

func Test_OnMinutesSinceLast_ShouldUseLastListElement(t *testing.T) {
	now := t0.Add(100 * time.Minute)
	recs := records(
		user.NewRecord(30, t0),
		user.NewRecord(20, t0.Add(90*time.Minute)),
	)

	minutes, ok := MinutesSinceLast(recs, now)
	assert.True(t, ok)
	assert.Equal(t, 10, minutes)
}

func Test_OnMinutesSinceLast_ShouldReportEmptyList(t *testing.T) {
	_, ok := MinutesSinceLast(nil, t0)
	assert.False(t, ok)
}

func Test_OnWaitRemaining_ShouldCountDownAndFloorAtZero(t *testing.T) {
	last := t0

	prev := WaitRemaining(last, 60, t0)
	assert.Equal(t, 60, prev)

	for m := 1; m <= 90; m++ {
		cur := WaitRemaining(last, 60, t0.Add(time.Duration(m)*time.Minute))
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, 0, WaitRemaining(last, 60, t0.Add(60*time.Minute)))
	assert.Equal(t, 0, prev)
}

func Test_OnCooldownScenario_ShouldMatchAllDerivedValues(t *testing.T) {
	now := t0.Add(100 * time.Minute)
	recs := records(
		user.NewRecord(30, t0),
		user.NewRecord(20, t0.Add(90*time.Minute)),
	)

	assert.Equal(t, 50.0, Total(recs))

	minutes, ok := MinutesSinceLast(recs, now)
	assert.True(t, ok)
	assert.Equal(t, 10, minutes)

	assert.Equal(t, 50, WaitRemaining(recs[1].Created, 60, now))
	assert.True(t, WaitActive(recs, 60, now))
}

func Test_OnWaitActive_ShouldBeFalseWithoutRecordsOrAfterCooldown(t *testing.T) {
	assert.False(t, WaitActive(nil, 60, t0))

	recs := records(user.NewRecord(30, t0))
	assert.True(t, WaitActive(recs, 60, t0.Add(59*time.Minute)))
	assert.False(t, WaitActive(recs, 60, t0.Add(60*time.Minute)))
}
