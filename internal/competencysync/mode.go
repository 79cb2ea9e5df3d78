package competencysync

import (
	"fmt"
	"strings"
)

type Mode int

const (
	ModeNone Mode = iota
	ModeMerge
	ModeReplace
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeMerge:
		return "merge"
	case ModeReplace:
		return "replace"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode resolves the configured policy. Blank means none.
func ParseMode(raw string) (Mode, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "", "none":
		return ModeNone, nil
	case "merge":
		return ModeMerge, nil
	case "replace":
		return ModeReplace, nil
	default:
		return ModeNone, fmt.Errorf("%w: sync mode value '%s': must be one of [none, merge, replace]", ErrConfig, raw)
	}
}
