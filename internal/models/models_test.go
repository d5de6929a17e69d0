package models_test

import (
	"testing"

	"casino-miniapp-gateway/internal/models"
)

func TestGenerateIDs(t *testing.T) {
	if models.GenerateSessionID() == "" {
		t.Error("Session ID should not be empty")
	}
	if models.GenerateSessionID() == models.GenerateSessionID() {
		t.Error("Session IDs should not collide")
	}
	if models.GenerateRequestID() == "" {
		t.Error("Request ID should not be empty")
	}
}

func TestRegisterInputValidate(t *testing.T) {
	valid := models.RegisterInput{
		FullName:      "Ivan Petrov",
		Age:           "27",
		City:          "Tbilisi",
		Contact:       "@ivan",
		AccountNumber: "40817810000000001234",
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Valid input should pass: %v", err)
	}
	if valid.AgeValue() != 27 {
		t.Errorf("Expected age 27, got %d", valid.AgeValue())
	}

	cases := []struct {
		name   string
		mutate func(in *models.RegisterInput)
	}{
		{"empty name", func(in *models.RegisterInput) { in.FullName = "" }},
		{"whitespace city", func(in *models.RegisterInput) { in.City = "   " }},
		{"empty contact", func(in *models.RegisterInput) { in.Contact = "" }},
		{"empty account", func(in *models.RegisterInput) { in.AccountNumber = "" }},
		{"empty age", func(in *models.RegisterInput) { in.Age = "" }},
		{"non-numeric age", func(in *models.RegisterInput) { in.Age = "abc" }},
		{"zero age", func(in *models.RegisterInput) { in.Age = "0" }},
		{"negative age", func(in *models.RegisterInput) { in.Age = "-5" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			if err := in.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
