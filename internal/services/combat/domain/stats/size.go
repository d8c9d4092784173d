package stats

import (
	"fmt"
	"strings"
)

// Size is a discrete body size band.
type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
	SizeHuge
)

// Attribute totals at which each band starts.
const (
	MediumThreshold = 36
	LargeThreshold  = 48
	HugeThreshold   = 60
)

// SizeFor derives the size band from an attribute total.
func SizeFor(total int) Size {
	switch {
	case total >= HugeThreshold:
		return SizeHuge
	case total >= LargeThreshold:
		return SizeLarge
	case total >= MediumThreshold:
		return SizeMedium
	default:
		return SizeSmall
	}
}

// Edge is the side length, in cells, of the band's square footprint.
func (s Size) Edge() int {
	switch s {
	case SizeLarge:
		return 2
	case SizeHuge:
		return 3
	default:
		return 1
	}
}

func (s Size) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	case SizeHuge:
		return "huge"
	default:
		return "unknown"
	}
}

// ParseSize parses a size label.
func ParseSize(value string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "small":
		return SizeSmall, nil
	case "medium":
		return SizeMedium, nil
	case "large":
		return SizeLarge, nil
	case "huge":
		return SizeHuge, nil
	default:
		return SizeSmall, fmt.Errorf("unknown size %q", value)
	}
}
