package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mosaiq/mosaiq/model"
)

// FormatValue renders a raw value as a display string per the configured
// style. Stateless; consumed by the rendering layer, never by the pipeline.
// Non-numeric values and a nil spec fall back to the plain string form.
func FormatValue(raw any, spec *model.FormatSpec) string {
	n, numeric := numericValue(raw)
	if spec == nil || !numeric {
		return stringValue(raw)
	}

	switch spec.Style {
	case "currency":
		prefix := spec.Currency
		if prefix == "" {
			prefix = "$"
		}
		return prefix + formatGrouped(n, decimalsOr(spec, 2))
	case "percent":
		return formatGrouped(n*100, decimalsOr(spec, 1)) + "%"
	case "number":
		return formatGrouped(n, spec.Decimals)
	}
	return stringValue(raw)
}

// DisplayString renders a raw value for display: integers without a decimal
// point, nil as the empty string.
func DisplayString(v any) string {
	return stringValue(v)
}

func decimalsOr(spec *model.FormatSpec, fallback int) int {
	if spec.Decimals > 0 {
		return spec.Decimals
	}
	return fallback
}

// formatGrouped renders n with comma thousands separators and the given
// number of decimal places.
func formatGrouped(n float64, decimals int) string {
	negative := math.Signbit(n)
	n = math.Abs(n)

	s := strconv.FormatFloat(n, 'f', decimals, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	if len(intPart) > 3 {
		var parts []string
		for len(intPart) > 3 {
			parts = append([]string{intPart[len(intPart)-3:]}, parts...)
			intPart = intPart[:len(intPart)-3]
		}
		parts = append([]string{intPart}, parts...)
		intPart = strings.Join(parts, ",")
	}

	out := intPart
	if fracPart != "" {
		out = fmt.Sprintf("%s.%s", intPart, fracPart)
	}
	if negative && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return out
}
