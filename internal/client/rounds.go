package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultRounds 输入无法解析时使用
const DefaultRounds = 3

var ErrTooManyRounds = errors.New("rounds must fit in one byte (max 255)")

// ParseRounds 解析用户输入的局数
func ParseRounds(s string) (uint8, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid rounds %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid rounds %d", n)
	}
	if n > 255 {
		return 0, ErrTooManyRounds
	}
	return uint8(n), nil
}
