package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGroupKnownGroups(t *testing.T) {
	for _, group := range KnownGroups() {
		setID, err := ResolveGroup(group)
		require.NoError(t, err, group)
		assert.Greater(t, setID, 0, group)
	}
}

func TestResolveGroupLegacyAliases(t *testing.T) {
	collegeSet, err := ResolveGroup(GroupCollege)
	require.NoError(t, err)
	for _, alias := range []string{"UnderGraduate Student", "Undergraduate Student"} {
		setID, err := ResolveGroup(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, collegeSet, setID, alias)
	}

	pgSet, err := ResolveGroup(GroupPostGraduate)
	require.NoError(t, err)
	for _, alias := range []string{"PostGraduate", "Post Graduate"} {
		setID, err := ResolveGroup(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, pgSet, setID, alias)
	}
}

func TestResolveGroupUnmappedFailsLoudly(t *testing.T) {
	_, err := ResolveGroup("Middle School")
	require.ErrorIs(t, err, ErrUnknownGroup)
	assert.Contains(t, err.Error(), "Middle School")
}

func TestToQuestionCarriesSkippable(t *testing.T) {
	q := QuizQuestion{
		QuestionKey: "s3_interest",
		Text:        "What excites you most?",
		Options:     []string{"A", "B"},
		Category:    "Interest",
		Skippable:   true,
	}

	served := q.ToQuestion()
	assert.Equal(t, "s3_interest", served.Key)
	assert.True(t, served.Skippable)
	assert.Equal(t, q.Options, served.Options)
}
