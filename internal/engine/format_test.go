package engine

import (
	"testing"

	"github.com/mosaiq/mosaiq/model"
)

func TestFormatValue_Number(t *testing.T) {
	spec := &model.FormatSpec{Style: "number"}

	if got := FormatValue(1234567, spec); got != "1,234,567" {
		t.Errorf("number = %q, want 1,234,567", got)
	}
	if got := FormatValue(12.345, &model.FormatSpec{Style: "number", Decimals: 2}); got != "12.35" {
		t.Errorf("number with decimals = %q, want 12.35", got)
	}
}

func TestFormatValue_Currency(t *testing.T) {
	spec := &model.FormatSpec{Style: "currency", Currency: "USD "}

	if got := FormatValue(1234.5, spec); got != "USD 1,234.50" {
		t.Errorf("currency = %q, want USD 1,234.50", got)
	}
	if got := FormatValue(-42, &model.FormatSpec{Style: "currency"}); got != "$-42.00" {
		t.Errorf("negative currency = %q, want $-42.00", got)
	}
}

func TestFormatValue_Percent(t *testing.T) {
	spec := &model.FormatSpec{Style: "percent"}

	if got := FormatValue(0.256, spec); got != "25.6%" {
		t.Errorf("percent = %q, want 25.6%%", got)
	}
}

func TestFormatValue_NonNumericFallsBack(t *testing.T) {
	spec := &model.FormatSpec{Style: "currency"}

	if got := FormatValue("East", spec); got != "East" {
		t.Errorf("non-numeric = %q, want East", got)
	}
	if got := FormatValue(nil, spec); got != "" {
		t.Errorf("nil = %q, want empty", got)
	}
}

func TestFormatValue_NilSpec(t *testing.T) {
	if got := FormatValue(42, nil); got != "42" {
		t.Errorf("nil spec = %q, want 42", got)
	}
}
