package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/arcade-bot/internal/bot/keyboard"
)

func TestMainMenu(t *testing.T) {
	markup := keyboard.MainMenu()

	assert.True(t, markup.ResizeKeyboard)

	expectedRows := [][]string{
		{"/trivia", "/rps", "/guess 50"},
		{"/profile", "/daily"},
		{"/help"},
	}

	require.Len(t, markup.ReplyKeyboard, len(expectedRows))
	for i, row := range expectedRows {
		require.Len(t, markup.ReplyKeyboard[i], len(row))
		for j, text := range row {
			assert.Equal(t, text, markup.ReplyKeyboard[i][j].Text)
		}
	}
}
