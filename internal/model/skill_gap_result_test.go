package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleItemAddIsIdempotent(t *testing.T) {
	set := []string{"sql"}

	set = ToggleItem(set, "python", true)
	assert.Equal(t, []string{"sql", "python"}, set)

	// 重复置位不产生重复条目
	set = ToggleItem(set, "python", true)
	assert.Equal(t, []string{"sql", "python"}, set)
}

func TestToggleItemRemoveIsIdempotent(t *testing.T) {
	set := []string{"sql", "python", "excel"}

	set = ToggleItem(set, "python", false)
	assert.Equal(t, []string{"sql", "excel"}, set)

	set = ToggleItem(set, "python", false)
	assert.Equal(t, []string{"sql", "excel"}, set)

	// 空集合上的复位是空操作
	assert.Empty(t, ToggleItem(nil, "anything", false))
}
