package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-03-15", "2024-03-15T00:00:00", "2024-03-15T00:00:00Z", " 2024-03-15 00:00:00 "} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
	}

	_, err := ParseDate("15/03/2024")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}
