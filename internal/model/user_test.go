package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeJourneyProgressReplace(t *testing.T) {
	stored := map[string]bool{"quiz": true, "skillGap": true}
	incoming := map[string]bool{"quiz": true}

	out := MergeJourneyProgress(stored, incoming, false)
	assert.Equal(t, map[string]bool{"quiz": true}, out)
}

func TestMergeJourneyProgressOverlayIncomingWins(t *testing.T) {
	stored := map[string]bool{"quiz": true, "skillGap": false}
	incoming := map[string]bool{"skillGap": true, "tryout": true}

	out := MergeJourneyProgress(stored, incoming, true)
	assert.Equal(t, map[string]bool{"quiz": true, "skillGap": true, "tryout": true}, out)

	// 入参不被原地修改
	assert.Equal(t, map[string]bool{"quiz": true, "skillGap": false}, stored)
}

func TestMergeJourneyProgressNilStored(t *testing.T) {
	out := MergeJourneyProgress(nil, map[string]bool{"quiz": true}, true)
	assert.Equal(t, map[string]bool{"quiz": true}, out)
}
