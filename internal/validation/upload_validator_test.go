package validation

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilename(t *testing.T) {
	v := NewUploadValidator(nil)

	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "xlsx", filename: "market.xlsx", wantErr: false},
		{name: "legacy xls", filename: "market.xls", wantErr: false},
		{name: "upper case extension", filename: "MARKET.XLSX", wantErr: false},
		{name: "with path", filename: "uploads/market.xlsx", wantErr: false},
		{name: "csv", filename: "market.csv", wantErr: true},
		{name: "no extension", filename: "market", wantErr: true},
		{name: "office lock file", filename: "~$market.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateContent(t *testing.T) {
	v := NewUploadValidator(nil)

	t.Run("zip header passes", func(t *testing.T) {
		payload := "PK\x03\x04rest of the archive"
		r, err := v.ValidateContent(strings.NewReader(payload))
		require.NoError(t, err)

		// The returned reader replays the sniffed bytes.
		all, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, payload, string(all))
	})

	t.Run("ole header passes", func(t *testing.T) {
		payload := "\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1legacy workbook"
		_, err := v.ValidateContent(strings.NewReader(payload))
		assert.NoError(t, err)
	})

	t.Run("plain text rejected", func(t *testing.T) {
		_, err := v.ValidateContent(strings.NewReader("final_location,year\nwakad,2020"))
		assert.Error(t, err)
	})

	t.Run("short stream rejected", func(t *testing.T) {
		_, err := v.ValidateContent(strings.NewReader("PK"))
		assert.Error(t, err)
	})
}
