package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/acoustic-partition/internal/dataset"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected dataset.RunOptions
	}{
		{"no flags", nil, dataset.RunOptions{Standard: true}},
		{"white", []string{"-w"}, dataset.RunOptions{Standard: true, White: true}},
		{"white only", []string{"-m"}, dataset.RunOptions{White: true}},
		{"both", []string{"-w", "-m"}, dataset.RunOptions{White: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	_, err := parseFlags([]string{"-x"}, io.Discard)
	assert.Error(t, err)

	_, err = parseFlags([]string{"extra"}, io.Discard)
	assert.Error(t, err)
}

func TestRun_MissingDataRoot(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATA_ROOT", "DCLDE2013_Data")
	t.Setenv("LOG_LEVEL", "error")

	err := run(nil, io.Discard)
	assert.ErrorIs(t, err, dataset.ErrDataMissing)
}
