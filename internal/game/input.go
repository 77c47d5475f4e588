package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidInput is returned for a count that is not a positive whole number.
var ErrInvalidInput = errors.New("invalid point count")

// InvalidInputMessage is shown to the player for ErrInvalidInput.
const InvalidInputMessage = "Please enter a positive whole number."

// ParseCount validates the token count typed by the player.
func ParseCount(text string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || value <= 0 {
		return 0, ErrInvalidInput
	}
	return value, nil
}

// FormatElapsed renders a tick count as seconds and tenths.
func FormatElapsed(ticks int) string {
	return fmt.Sprintf("%d.%d", ticks/10, ticks%10)
}
