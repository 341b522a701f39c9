package core

import (
	"strings"
	"time"
)

// ExpenseInput carries raw form values for creating or editing an expense.
type ExpenseInput struct {
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Note     string `json:"note"`
}

// Expense validates the input and builds an Expense without id or timestamp.
// An empty date falls back to today's date.
func (in ExpenseInput) Expense(today time.Time) (Expense, error) {
	amount, err := ParseMoney(in.Amount)
	if err != nil {
		return Expense{}, err
	}
	cat, err := ParseCategory(in.Category)
	if err != nil {
		return Expense{}, err
	}
	date := DateOf(today)
	if strings.TrimSpace(in.Date) != "" {
		if date, err = ParseDate(in.Date); err != nil {
			return Expense{}, err
		}
	}
	e := Expense{
		Amount:   amount,
		Category: cat,
		Date:     date,
		Note:     strings.TrimSpace(in.Note),
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// Credentials is the email/password pair used by signup and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the email. Passwords are compared as typed.
func (c Credentials) Normalize() Credentials {
	c.Email = strings.TrimSpace(c.Email)
	return c
}

func (c Credentials) Validate() error {
	at := strings.Index(c.Email, "@")
	if at <= 0 || at == len(c.Email)-1 || strings.ContainsAny(c.Email, " \t\n") {
		return ErrInvalidEmail
	}
	if c.Password == "" {
		return ErrEmptyPassword
	}
	if len(c.Password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// ProfileInput holds profile edits; empty fields leave the stored value alone.
type ProfileInput struct {
	Name     string `json:"name"`
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`
}

// Validate checks the optional new password.
func (in ProfileInput) Validate() error {
	if len(in.Password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Apply merges the non-empty name and pseudo into p.
func (in ProfileInput) Apply(p Profile) Profile {
	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	if pseudo := strings.TrimSpace(in.Pseudo); pseudo != "" {
		p.Pseudo = pseudo
	}
	return p
}
