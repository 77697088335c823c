package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	cases := []struct {
		value string
		valid bool
	}{
		{"Crash Barrier", true},
		{"M/s. Patil & Sons (Pune)", true},
		{"O'Neil Safety, Ltd.", true},
		{"   ", false},
		{"Barrier<script>", false},
		{"Barrier; drop", false},
		{strings.Repeat("a", 160), true},
		{strings.Repeat("a", 161), false},
	}
	for _, tc := range cases {
		r := Name("Manufacturer name", tc.value, 0)
		assert.Equal(t, tc.valid, r.Valid, "value %q: %s", tc.value, r.Message)
	}
}

func TestNameMessages(t *testing.T) {
	assert.Equal(t, "Manufacturer name is required", Name("Manufacturer name", "", 0).Message)
	assert.Equal(t, "Product name must be at most 5 characters", Name("Product name", "abcdef", 5).Message)
}

func TestPhone(t *testing.T) {
	assert.True(t, Phone("contact", "9876543210").Valid)
	assert.True(t, Phone("contact", " 9876543210 ").Valid)
	assert.False(t, Phone("contact", "987654321").Valid)
	assert.False(t, Phone("contact", "98765432100").Valid)
	assert.False(t, Phone("contact", "+987654321").Valid)
	assert.False(t, Phone("contact", "98765-4321").Valid)
	assert.False(t, Phone("contact", "").Valid)
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("email", "").Valid)
	assert.True(t, Email("email", "sales@ynm.example").Valid)
	assert.False(t, Email("email", "sales-at-ynm").Valid)
}

func TestNumber(t *testing.T) {
	price := NumberRule{Min: 0.01}
	qty := NumberRule{Positive: true}

	assert.True(t, Number("price", 100, price).Valid)
	assert.True(t, Number("price", "12.5", price).Valid)
	assert.True(t, Number("price", 0.01, price).Valid)
	assert.False(t, Number("price", 0.001, price).Valid)
	assert.False(t, Number("price", "abc", price).Valid)
	assert.False(t, Number("price", nil, price).Valid)
	assert.False(t, Number("price", true, price).Valid)
	assert.False(t, Number("price", -5, price).Valid)

	assert.False(t, Number("quantity", 0, qty).Valid)
	assert.True(t, Number("quantity", 0.5, qty).Valid)

	assert.True(t, Number("transportCost", 0, NumberRule{}).Valid)
	assert.True(t, Number("adjustment", -3, NumberRule{AllowNegative: true}).Valid)

	assert.Equal(t, "price cannot be negative", Number("price", -1, price).Message)
}

func TestFloat(t *testing.T) {
	n, err := Float(" 42.25 ")
	assert.NoError(t, err)
	assert.Equal(t, 42.25, n)

	_, err = Float("")
	assert.Error(t, err)
}

func TestUnit(t *testing.T) {
	for _, u := range Units {
		assert.True(t, Unit(u).Valid, u)
	}
	assert.True(t, Unit(" KG ").Valid)
	assert.False(t, Unit("litre").Valid)
	assert.False(t, Unit("").Valid)
}

func TestNotes(t *testing.T) {
	assert.True(t, Notes("notes", "").Valid)
	assert.True(t, Notes("notes", "Hot-dip galvanised; 3mm #2 grade, 90% zinc + coat: \"IS 2629\"").Valid)
	assert.True(t, Notes("notes", "line one\nline two").Valid)
	assert.False(t, Notes("notes", "<b>bold</b>").Valid)
	assert.False(t, Notes("notes", strings.Repeat("x", 201)).Valid)
}

func TestDistinct(t *testing.T) {
	assert.False(t, Distinct("fromLocation", "Pune", "toLocation", " PUNE ").Valid)
	assert.True(t, Distinct("fromLocation", "Pune", "toLocation", "Mumbai").Valid)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	calls := 0
	r := Run(
		func() Result { calls++; return Name("name", "ok", 0) },
		func() Result { calls++; return Phone("contact", "1") },
		func() Result { calls++; return Unit("bad") },
	)
	assert.False(t, r.Valid)
	assert.Equal(t, "contact", r.Field)
	assert.Equal(t, 2, calls)

	assert.True(t, First(pass(), pass()).Valid)
	assert.Equal(t, "unit", First(pass(), Unit("bad"), Phone("contact", "1")).Field)
}
