package checkout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "non digits only", input: "abc--", want: ""},
		{name: "single digit", input: "8", want: "+8"},
		{name: "partial area code", input: "8999", want: "+7 (999"},
		{name: "partial block", input: "8999123", want: "+7 (999) 123"},
		{name: "partial tail", input: "899912345", want: "+7 (999) 123-45"},
		{name: "full number", input: "89991234567", want: "+7 (999) 123-45-67"},
		{name: "already formatted", input: "+7 (999) 123-45-67", want: "+7 (999) 123-45-67"},
		{name: "extra digits truncated", input: "8999123456789", want: "+7 (999) 123-45-67"},
		{name: "ten digits", input: "8999123456", want: "+7 (999) 123-45-6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatPhone(tt.input))
		})
	}
}

func TestFormatPhoneIdempotent(t *testing.T) {
	inputs := []string{"8", "8999", "8999123", "899912345", "89991234567", "+7 (912) 000-11-22"}
	for _, in := range inputs {
		once := FormatPhone(in)
		require.Equal(t, once, FormatPhone(once), "input %q", in)
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"89991234567", false}, // raw leading 8; valid only after the mask folds it into +7
		{"+7 (999) 123-45-67", true},
		{"79991234567", true},
		{"9991234567", false},
		{"+7 (999) 123-45-6", false},
		{"", false},
		{"not a phone", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ValidPhone(tt.input), "input %q", tt.input)
	}
}

func TestDigits(t *testing.T) {
	require.Equal(t, "79991234567", Digits("+7 (999) 123-45-67"))
	require.Equal(t, "", Digits("кв. д."))
}
