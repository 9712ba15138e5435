package sexp

import (
	"fmt"
	"strconv"
	"strings"
)

// NanometersPerMM is KiCad's internal resolution.
const NanometersPerMM = 1_000_000

// ParseNM parses a decimal millimetre value such as "-12.3456" into
// nanometres without going through floating point. Digits beyond the
// sixth decimal are rejected.
func ParseNM(s string) (int64, error) {
	str := s
	neg := false
	switch {
	case strings.HasPrefix(str, "-"):
		neg = true
		str = str[1:]
	case strings.HasPrefix(str, "+"):
		str = str[1:]
	}

	whole, frac, _ := strings.Cut(str, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	if len(frac) > 6 {
		if strings.TrimRight(frac[6:], "0") != "" {
			return 0, fmt.Errorf("length %q is below nanometre resolution", s)
		}
		frac = frac[:6]
	}

	var w, f int64
	var err error
	if whole != "" {
		if w, err = strconv.ParseInt(whole, 10, 64); err != nil {
			return 0, fmt.Errorf("invalid length %q: %w", s, err)
		}
	}
	if frac != "" {
		if f, err = strconv.ParseInt(frac+strings.Repeat("0", 6-len(frac)), 10, 64); err != nil {
			return 0, fmt.Errorf("invalid length %q: %w", s, err)
		}
	}

	nm := w*NanometersPerMM + f
	if neg {
		nm = -nm
	}
	return nm, nil
}

// FormatNM formats nanometres as millimetres with no trailing zeros, the
// way KiCad writes coordinates.
func FormatNM(nm int64) string {
	sign := ""
	if nm < 0 {
		sign = "-"
		nm = -nm
	}
	whole := nm / NanometersPerMM
	frac := nm % NanometersPerMM
	if frac == 0 {
		return sign + strconv.FormatInt(whole, 10)
	}
	return sign + strconv.FormatInt(whole, 10) + "." + strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
}
