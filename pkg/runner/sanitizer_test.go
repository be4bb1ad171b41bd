package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain answer", input: "Crushing", want: "Crushing"},
		{name: "free text keeps newlines and tabs", input: "Appendectomy 2019\n\tno complications", want: "Appendectomy 2019\n\tno complications"},
		{name: "escape sequences lose ESC", input: "\x1b[31mYes\x1b[0m", want: "[31mYes[0m"},
		{name: "null byte", input: "Back\x00 of head", want: "Back of head"},
		{name: "at limit", input: strings.Repeat("a", DefaultMaxInputSize), want: strings.Repeat("a", DefaultMaxInputSize)},
		{name: "over limit", input: strings.Repeat("a", DefaultMaxInputSize+1), wantErr: ErrInputTooLarge},
		{name: "invalid utf8", input: "\xbd\xb2\x3d\xbc", wantErr: ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput_LimitFromEnv(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := SanitizeInput("2024-03-08X")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	got, err := SanitizeInput("2024-03-08")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", got)
}

func TestSanitizeAnswer(t *testing.T) {
	got, err := SanitizeAnswer("Sharp\x00")
	require.NoError(t, err)
	assert.Equal(t, "Sharp", got)

	got, err = SanitizeAnswer(8.0)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got)

	_, err = SanitizeAnswer(strings.Repeat("a", DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}
