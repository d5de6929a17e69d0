package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateSessionID() string {
	return fmt.Sprintf("sess_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateRequestID() string {
	return fmt.Sprintf("req_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

// Validate checks the registration form the way the client did: every field
// must be non-empty and the age must parse to a positive number.
func (in *RegisterInput) Validate() error {
	if strings.TrimSpace(in.FullName) == "" ||
		strings.TrimSpace(in.Age) == "" ||
		strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.Contact) == "" ||
		strings.TrimSpace(in.AccountNumber) == "" {
		return fmt.Errorf("all fields are required")
	}
	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil || age <= 0 {
		return fmt.Errorf("age must be a positive number")
	}
	return nil
}

func (in *RegisterInput) AgeValue() int {
	age, _ := strconv.Atoi(strings.TrimSpace(in.Age))
	return age
}
