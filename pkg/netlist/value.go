package netlist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)((?i:meg)|[TGKkmunpf])?[a-zA-Z]*$`)

// ParseValue - Parse value and factor. 1k -> 1000
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if matches[2] != "" {
		suffix := matches[2]
		if strings.EqualFold(suffix, "meg") {
			suffix = "meg"
		}
		if multiplier, ok := unitMap[suffix]; ok {
			num *= multiplier
		}
	}

	return num, nil
}

// FormatValue - Inverse of ParseValue. 1000 -> 1k
func FormatValue(value float64) string {
	abs := value
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs == 0:
		return "0"
	case abs >= 1e12:
		return trimZeros(value/1e12) + "T"
	case abs >= 1e9:
		return trimZeros(value/1e9) + "G"
	case abs >= 1e6:
		return trimZeros(value/1e6) + "meg"
	case abs >= 1e3:
		return trimZeros(value/1e3) + "k"
	case abs >= 1:
		return trimZeros(value)
	case abs >= 1e-3:
		return trimZeros(value*1e3) + "m"
	case abs >= 1e-6:
		return trimZeros(value*1e6) + "u"
	case abs >= 1e-9:
		return trimZeros(value*1e9) + "n"
	case abs >= 1e-12:
		return trimZeros(value*1e12) + "p"
	case abs >= 1e-15:
		return trimZeros(value*1e15) + "f"
	default:
		return strconv.FormatFloat(value, 'e', -1, 64)
	}
}

func trimZeros(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
