package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agalitsyn/dailyflow/internal/model"
)

var parseNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestParseCommand(t *testing.T) {
	cmd, ok := parseCommand("@dailyflow_bot /tasks", "dailyflow_bot")
	assert.True(t, ok)
	assert.Equal(t, "tasks", cmd)

	_, ok = parseCommand("hello", "dailyflow_bot")
	assert.False(t, ok)

	command, args, _ := cutCommand("add  buy milk !2 ")
	assert.Equal(t, "add", command)
	assert.Equal(t, "buy milk !2", args)
}

func TestParseAddArgs(t *testing.T) {
	req, err := parseAddArgs("Pay rent !4 ~2 #Home @2026-03-12 +shared | before noon", parseNow)
	require.NoError(t, err)

	assert.Equal(t, "Pay rent", req.Text)
	assert.Equal(t, "before noon", req.Description)
	assert.Equal(t, 4, req.Priority)
	assert.Equal(t, 2, req.Difficulty)
	assert.Equal(t, "home", req.CategoryID)
	assert.True(t, req.Shared)
	require.NotNil(t, req.Deadline)
	assert.Equal(t, time.Date(2026, time.March, 12, 23, 59, 59, 999000000, time.UTC), *req.Deadline)
}

func TestParseAddArgsModifiersAfterDescription(t *testing.T) {
	req, err := parseAddArgs("Pay rent | before noon !4 #home @tomorrow ~3 +shared", parseNow)
	require.NoError(t, err)

	assert.Equal(t, "Pay rent", req.Text)
	assert.Equal(t, "before noon", req.Description)
	assert.Equal(t, 4, req.Priority)
	assert.Equal(t, 3, req.Difficulty)
	assert.Equal(t, "home", req.CategoryID)
	assert.True(t, req.Shared)
	require.NotNil(t, req.Deadline)
	assert.Equal(t, time.Date(2026, time.March, 11, 23, 59, 59, 999000000, time.UTC), *req.Deadline)

	_, err = parseAddArgs("Pay rent | before noon !9", parseNow)
	assert.Error(t, err)
}

func TestParseAddArgsKeepsPlainWords(t *testing.T) {
	req, err := parseAddArgs("Call mom + dad ! +later", parseNow)
	require.NoError(t, err)

	assert.Equal(t, "Call mom + dad ! +later", req.Text)
	assert.False(t, req.Shared)
	assert.Zero(t, req.Priority)
	assert.Nil(t, req.Deadline)
}

func TestParseAddArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"empty", ""},
		{"only modifiers", "!3 #work"},
		{"priority out of range", "task !6"},
		{"priority not a number", "task !high"},
		{"difficulty out of range", "task ~11"},
		{"bad deadline", "task @next-week"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAddArgs(tt.args, parseNow)
			assert.Error(t, err)
		})
	}
}

func TestParseDeadline(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, time.March, 10, 23, 30, 0, 0, loc)

	today, err := parseDeadline("today", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 10, 23, 59, 59, 999000000, loc), today)

	tomorrow, err := parseDeadline("Tomorrow", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 11, 23, 59, 59, 999000000, loc), tomorrow)

	exact, err := parseDeadline("2026-04-01T09:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.April, 1, 9, 30, 0, 0, loc), exact)
}

func TestParseRangeArgs(t *testing.T) {
	field, r, err := parseRangeArgs("deadline 2026-03-01 -", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "deadline", field)
	require.NotNil(t, r.From)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), *r.From)
	assert.Nil(t, r.To)

	_, r, err = parseRangeArgs("created - -", time.UTC)
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	_, _, err = parseRangeArgs("updated - -", time.UTC)
	assert.Error(t, err)
	_, _, err = parseRangeArgs("created 2026-13-01 -", time.UTC)
	assert.Error(t, err)
	_, _, err = parseRangeArgs("created", time.UTC)
	assert.Error(t, err)
}

func TestParseDifficulties(t *testing.T) {
	ds, err := parseDifficulties("1 5 10")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 10}, ds)

	ds, err = parseDifficulties("")
	require.NoError(t, err)
	assert.Empty(t, ds)

	_, err = parseDifficulties("0")
	assert.Error(t, err)
}

func TestParseIndex(t *testing.T) {
	i, err := parseIndex(" 2 ", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = parseIndex("4", 3)
	assert.Error(t, err)
	_, err = parseIndex("0", 3)
	assert.Error(t, err)
	_, err = parseIndex("first", 3)
	assert.Error(t, err)
}

func TestApplySettingsArgs(t *testing.T) {
	base := model.DefaultPrioritySettings()

	s, err := applySettingsArgs(base, "soon_threshold=5 AGING_BOOST_DAYS=0")
	require.NoError(t, err)
	assert.Equal(t, 5, s.SoonThreshold)
	assert.Equal(t, 0, s.AgingBoostDays)
	assert.Equal(t, 7, base.SoonThreshold)

	_, err = applySettingsArgs(base, "soon_threshold=2")
	assert.ErrorIs(t, err, model.ErrInvalidPrioritySettings)

	_, err = applySettingsArgs(base, "colour=red")
	assert.Error(t, err)
	_, err = applySettingsArgs(base, "soon_threshold")
	assert.Error(t, err)
	_, err = applySettingsArgs(base, "soon_threshold=x")
	assert.Error(t, err)
}
