package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "09000000001", NormalizePhone("090-0000-0001"))
	assert.Equal(t, "09000000001", NormalizePhone("090 0000 0001"))
	assert.Equal(t, "09000000001", NormalizePhone("(090) 0000-0001"))
	assert.Equal(t, "09000000001", NormalizePhone("09000000001"))
	assert.Equal(t, "", NormalizePhone("abc-def"))
	assert.Equal(t, "", NormalizePhone(""))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "090-0000-0001", FormatPhone("09000000001"))
	assert.Equal(t, "090-0000-0001", FormatPhone("090-0000-0001"))

	// Only 11-digit numbers are reformatted
	assert.Equal(t, "0900000001", FormatPhone("0900000001"))
	assert.Equal(t, "090000000012", FormatPhone("090000000012"))
	assert.Equal(t, "", FormatPhone(""))
}

func TestFormatPhones(t *testing.T) {
	got := FormatPhones([]string{"09000000001", "09000000002"})
	assert.Equal(t, []string{"090-0000-0001", "090-0000-0002"}, got)
	assert.Empty(t, FormatPhones(nil))
}

func TestPhoneRoundTrip(t *testing.T) {
	normalized := NormalizePhone("090-0000-0001")
	assert.Equal(t, "09000000001", normalized)
	assert.Equal(t, "090-0000-0001", FormatPhone(normalized))
}
