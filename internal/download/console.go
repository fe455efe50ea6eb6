package download

import (
	"strings"
	"unicode/utf8"
)

// Console limits
const (
	MaxConsoleChars      = 100000
	ConsoleClearedMarker = "Cleared console!\n"
)

// ConsoleLog accumulates raw process output. Once it holds more than its
// limit the next append clears it and writes ConsoleClearedMarker first.
type ConsoleLog struct {
	limit int
	chars int
	buf   strings.Builder
}

// NewConsoleLog creates a console bounded at limit characters
func NewConsoleLog(limit int) *ConsoleLog {
	if limit <= 0 {
		limit = MaxConsoleChars
	}
	return &ConsoleLog{limit: limit}
}

// Append adds text to the console
func (c *ConsoleLog) Append(text string) {
	if c.chars > c.limit {
		c.buf.Reset()
		c.chars = 0
		c.write(ConsoleClearedMarker)
	}
	c.write(text)
}

// String returns the console content
func (c *ConsoleLog) String() string {
	return c.buf.String()
}

// Len returns the number of characters held
func (c *ConsoleLog) Len() int {
	return c.chars
}

func (c *ConsoleLog) write(text string) {
	c.buf.WriteString(text)
	c.chars += utf8.RuneCountInString(text)
}
