package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		pwd  string
		want bool
	}{
		{"Secret@123", true},
		{"Aa1@aaaa", true},
		{"secret@123", false},  // no upper
		{"SECRET@123", false},  // no lower
		{"Secret@abc", false},  // no digit
		{"Secret1234", false},  // no special
		{"Se@1", false},        // short
		{"Secret#123", false},  // # not allowed
		{"Sécret@123", false},  // non-ascii
		{"Secret @123", false}, // space
	}
	for _, tt := range tests {
		t.Run(tt.pwd, func(t *testing.T) {
			assert.Equal(t, tt.want, StrongPassword(tt.pwd))
		})
	}
}

type sample struct {
	Mobile    string `json:"mobileNumber" validate:"mobile"`
	Employees string `json:"numberOfEmployees" validate:"employees"`
	ID        string `json:"id" validate:"objectid"`
	FirstName string `json:"firstName" validate:"personname"`
}

func TestCustomTags(t *testing.T) {
	v := newValidator()

	ok := sample{Mobile: "01012345678", Employees: "11-20", ID: "64b7f0c2a1b2c3d4e5f60718", FirstName: "Ahmed"}
	require.NoError(t, v.Struct(ok))

	plus := ok
	plus.Mobile = "+201112345678"
	require.NoError(t, v.Struct(plus))

	bad := sample{Mobile: "0131234567", Employees: "many", ID: "xyz", FirstName: "Al"}
	err := v.Struct(bad)
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid mobile number", details["mobileNumber"])
	assert.Equal(t, "must be a range such as 11-20", details["numberOfEmployees"])
	assert.Equal(t, "must be a valid id", details["id"])
	assert.Contains(t, details, "firstName")
}

func TestToDetailsFallbacks(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}
