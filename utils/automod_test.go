package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTextClean(t *testing.T) {
	mod := ValidateText("Best pizza toppings of all time")
	assert.True(t, mod.IsValid)
	assert.Empty(t, mod.BannedWords)
	assert.Equal(t, "Best pizza toppings of all time", mod.FilteredText)
}

func TestValidateTextFlagsBannedWord(t *testing.T) {
	mod := ValidateText("this is fuck awful")
	require.False(t, mod.IsValid)
	assert.Contains(t, mod.BannedWords, "fuck")
	assert.Equal(t, "this is **** awful", mod.FilteredText)
}

func TestValidateTextCaseInsensitive(t *testing.T) {
	mod := ValidateText("FuCk")
	require.False(t, mod.IsValid)
	assert.Equal(t, "****", mod.FilteredText)
}

func TestValidateTextLeetVariant(t *testing.T) {
	mod := ValidateText("what a b1tch move")
	require.False(t, mod.IsValid)
	assert.Contains(t, mod.BannedWords, "b1tch")
}

func TestRedactionPreservesLength(t *testing.T) {
	in := "total skank energy"
	mod := ValidateText(in)
	require.False(t, mod.IsValid)
	assert.Len(t, mod.FilteredText, len(in))
	assert.Equal(t, strings.Count(mod.FilteredText, "*"), len("skank"))
}

func TestValidateItems(t *testing.T) {
	mod := ValidateItems([]string{"pineapple", "pepperoni", "fuck pizza", "mushrooms"})
	require.False(t, mod.IsValid)
	assert.Contains(t, mod.BannedWords, "fuck")
	require.Len(t, mod.FilteredItems, 4)
	assert.Equal(t, "pineapple", mod.FilteredItems[0])
	assert.Equal(t, "**** pizza", mod.FilteredItems[2])
}

func TestValidateItemsAllClean(t *testing.T) {
	mod := ValidateItems([]string{"dogs", "cats", "birds", "fish"})
	assert.True(t, mod.IsValid)
	assert.Empty(t, mod.BannedWords)
}

func TestUniqueStrings(t *testing.T) {
	got := UniqueStrings([]string{"a", "b", "a", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
