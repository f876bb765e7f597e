package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHabitNames(t *testing.T) {
	names, err := parseHabitNames(`["Read 20 pages", "Review flashcards"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Read 20 pages", "Review flashcards"}, names)

	names, err = parseHabitNames("```json\n[\"Solve one problem\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"Solve one problem"}, names)

	names, err = parseHabitNames("[]")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = parseHabitNames("Sure! Here are some habits")
	assert.ErrorContains(t, err, "failed to parse AI response")
}
