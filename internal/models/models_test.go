package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftItemKeepsStorageKey(t *testing.T) {
	d := Draft{Name: "Milk", Description: "2%", Image: "abc_todoPhoto.jpg"}

	item := d.Item()

	assert.Equal(t, Item{Name: "Milk", Description: "2%", Image: "abc_todoPhoto.jpg"}, item)
	assert.False(t, item.Saved())
	assert.True(t, item.HasImage())
}

func TestDraftIsEmpty(t *testing.T) {
	assert.True(t, Draft{}.IsEmpty())
	assert.False(t, Draft{Description: " "}.IsEmpty())
}
