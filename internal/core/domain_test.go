package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Fatalf("%q: got %q err=%v", c, got, err)
		}
	}
	for _, bad := range []string{"", "sante", "Food", "all"} {
		if _, err := ParseCategory(bad); !errors.Is(err, ErrInvalidCategory) {
			t.Fatalf("%q: expected ErrInvalidCategory, got %v", bad, err)
		}
	}
	if len(Categories()) != 7 {
		t.Fatalf("expected 7 categories")
	}
	if Sante.Color() != "#F38181" || Category("x").Color() != "#CCCCCC" {
		t.Fatalf("unexpected colours")
	}
}

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, _ := json.Marshal(NewDate(2025, 3, 7))
	if string(b) != `"2025-03-07"` {
		t.Fatalf("unexpected %s", b)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2024-02-29"`), &d); err != nil || d.String() != "2024-02-29" {
		t.Fatalf("unexpected %v %v", d, err)
	}
	if err := json.Unmarshal([]byte(`"2024-13-01"`), &d); err == nil {
		t.Fatalf("expected error for bad month")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Amount:   Money{Cents: 100},
		Category: Transport,
		Date:     NewDate(2025, 1, 1),
		Note:     "ok",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Amount: Money{Cents: 0}, Category: Transport, Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: -1}, Category: Transport, Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 1}, Category: "Other", Date: NewDate(2025, 1, 1)},
		{Amount: Money{Cents: 1}, Category: Transport},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenseInput(t *testing.T) {
	today := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

	e, err := ExpenseInput{Amount: "12,50", Category: "Loisirs", Note: "  cinema "}.Expense(today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Amount.Cents != 1250 || e.Category != Loisirs || e.Note != "cinema" || e.Date.String() != "2025-06-15" {
		t.Fatalf("unexpected expense %+v", e)
	}

	cases := []struct {
		in   ExpenseInput
		want error
	}{
		{ExpenseInput{Amount: "0", Category: "Loisirs"}, ErrInvalidAmount},
		{ExpenseInput{Amount: "abc", Category: "Loisirs"}, ErrInvalidAmount},
		{ExpenseInput{Amount: "1", Category: "Nope"}, ErrInvalidCategory},
		{ExpenseInput{Amount: "1", Category: "Loisirs", Date: "15/06/2025"}, ErrInvalidDate},
		{ExpenseInput{Amount: "1", Category: "Loisirs", Note: strings.Repeat("a", 201)}, ErrNoteTooLong},
	}
	for i, tc := range cases {
		if _, err := tc.in.Expense(today); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}

	// The note limit counts characters, not bytes.
	accented := strings.Repeat("é", MaxNoteLength)
	if _, err := (ExpenseInput{Amount: "1", Category: "Loisirs", Note: accented}).Expense(today); err != nil {
		t.Fatalf("%d-character note rejected: %v", MaxNoteLength, err)
	}
}

func TestCredentialsValidate(t *testing.T) {
	if err := (Credentials{Email: "a@b.com", Password: "x"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Credentials{Email: "ab.com", Password: "x"}).Validate(); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if err := (Credentials{Email: "a@b.com"}).Validate(); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
	if err := (Credentials{Email: "a@b.com", Password: strings.Repeat("p", MaxPasswordBytes)}).Validate(); err != nil {
		t.Fatalf("72-byte password rejected: %v", err)
	}
	long := strings.Repeat("p", MaxPasswordBytes+1)
	if err := (Credentials{Email: "a@b.com", Password: long}).Validate(); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if err := (ProfileInput{Password: long}).Validate(); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("profile: expected ErrPasswordTooLong, got %v", err)
	}
	if err := (ProfileInput{Name: "Ada"}).Validate(); err != nil {
		t.Fatalf("profile without password rejected: %v", err)
	}
}

func TestProfileInputApply(t *testing.T) {
	p := Profile{Name: "Ada", Pseudo: "ada"}
	got := ProfileInput{Pseudo: " countess "}.Apply(p)
	if got.Name != "Ada" || got.Pseudo != "countess" {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestNewBudgetStatus(t *testing.T) {
	st := NewBudgetStatus(Money{Cents: 10000}, true, Money{Cents: 8000})
	if st.Remaining.Cents != 2000 || st.PercentUsed != 80 {
		t.Fatalf("unexpected status %+v", st)
	}
	over := NewBudgetStatus(Money{Cents: 10000}, true, Money{Cents: 15000})
	if over.Remaining.Cents != -5000 || over.PercentUsed != 150 {
		t.Fatalf("unexpected status %+v", over)
	}
	unset := NewBudgetStatus(Money{}, false, Money{Cents: 100})
	if unset.Remaining.Cents != 0 || unset.PercentUsed != 0 {
		t.Fatalf("unexpected status %+v", unset)
	}
}
