package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name     string   `json:"name" validate:"required"`
	Channel  string   `json:"nurturing_channel" validate:"oneof=Email WhatsApp"`
	LeadIDs  []int64  `json:"lead_ids" validate:"min=1"`
	Email    string   `json:"email,omitempty" validate:"omitempty,email"`
	Internal string   `json:"-" validate:"required"`
	Untagged string   `validate:"required"`
	Tags     []string `json:"tags"`
}

func TestValidate(t *testing.T) {
	valid := sample{
		Name:     "Spring launch",
		Channel:  "Email",
		LeadIDs:  []int64{1},
		Internal: "x",
		Untagged: "y",
	}

	tests := []struct {
		name   string
		mutate func(*sample)
		want   map[string]string
	}{
		{"valid", func(*sample) {}, nil},
		{"json name reported", func(s *sample) { s.Name = "" }, map[string]string{"name": "required"}},
		{"json name before options", func(s *sample) { s.Email = "nope" }, map[string]string{"email": "email"}},
		{"renamed field", func(s *sample) { s.Channel = "Fax" }, map[string]string{"nurturing_channel": "oneof"}},
		{"slice min", func(s *sample) { s.LeadIDs = nil }, map[string]string{"lead_ids": "min"}},
		{"dash falls back to go name", func(s *sample) { s.Internal = "" }, map[string]string{"Internal": "required"}},
		{"untagged uses go name", func(s *sample) { s.Untagged = "" }, map[string]string{"Untagged": "required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			assert.Equal(t, tt.want, Validate(&s))
		})
	}
}

func TestValidateMultipleFields(t *testing.T) {
	errs := Validate(&sample{Channel: "Email", Internal: "x", Untagged: "y"})
	assert.Equal(t, map[string]string{"name": "required", "lead_ids": "min"}, errs)
}

func TestValidateNonStruct(t *testing.T) {
	errs := Validate("not a struct")
	assert.Contains(t, errs, "_")
}
