package publish

import (
	"strconv"
	"strings"
	"time"

	"spacebook/internal/model"
)

// ParseDelay converts the three user-entered delay fields into a
// duration. Each field must be a non-negative base-10 integer; an
// empty field counts as zero. The result is exactly
// hours*3600 + minutes*60 + seconds, in whole seconds.
func ParseDelay(hours, minutes, seconds string) (time.Duration, error) {
	h, err := parseField("hours", hours)
	if err != nil {
		return 0, err
	}
	m, err := parseField("minutes", minutes)
	if err != nil {
		return 0, err
	}
	s, err := parseField("seconds", seconds)
	if err != nil {
		return 0, err
	}
	total := h*3600 + m*60 + s
	return time.Duration(total) * time.Second, nil
}

func parseField(name, v string) (int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: name, Message: "must be a whole number"}
	}
	if n < 0 {
		return 0, &model.ValidationError{Field: name, Message: "must not be negative"}
	}
	return n, nil
}
