package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the calendar date format used in storage and on the wire.
const DateLayout = "2006-01-02"

const (
	// MaxNoteLength is the note limit in characters.
	MaxNoteLength = 200
	// MaxPasswordBytes is the longest password bcrypt can hash.
	MaxPasswordBytes = 72
	// MaxAmountCents caps a single amount at one billion euros, so ledger
	// totals stay far from int64 overflow.
	MaxAmountCents = 1_000_000_000 * 100
)

const (
	Alimentation Category = "Alimentation"
	Transport    Category = "Transport"
	Loisirs      Category = "Loisirs"
	Sante        Category = "Santé"
	Shopping     Category = "Shopping"
	Logement     Category = "Logement"
	Autres       Category = "Autres"
)

type (
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID        int64    `json:"id"`
		Amount    Money    `json:"amount"`
		Category  Category `json:"category"`
		Date      Date     `json:"date"`
		Note      string   `json:"note"`
		Timestamp int64    `json:"timestamp"` // creation time, unix millis
	}

	Budget struct {
		Monthly Money `json:"monthly"`
	}

	Profile struct {
		Name   string `json:"name"`
		Pseudo string `json:"pseudo"`
	}

	User struct {
		Email        string  `json:"email"`
		PasswordHash string  `json:"passwordHash"`
		Profile      Profile `json:"profile"`
	}
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("an account already exists")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNotFound           = errors.New("not found")
	ErrCorruptStoredData  = errors.New("corrupt stored data")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmptyPassword      = errors.New("empty password")
	ErrPasswordTooLong    = errors.New("password longer than 72 bytes")
	ErrNoteTooLong        = errors.New("note too long (max 200 characters)")
	ErrNoSession          = errors.New("no active session")
	ErrNoBudget           = errors.New("no monthly budget set")
)

var categories = []Category{Alimentation, Transport, Loisirs, Sante, Shopping, Logement, Autres}

var categoryColors = map[Category]string{
	Alimentation: "#FF6B6B",
	Transport:    "#4ECDC4",
	Loisirs:      "#95E1D3",
	Sante:        "#F38181",
	Shopping:     "#AA96DA",
	Logement:     "#FCBAD3",
	Autres:       "#A8E6CF",
}

// Categories returns the fixed category list in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches s exactly against the category list.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c Category) Validate() error {
	if _, ok := categoryColors[c]; !ok {
		return ErrInvalidCategory
	}
	return nil
}

// Color returns the hex colour used when charting the category.
func (c Category) Color() string {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return "#CCCCCC"
}

func (c Category) String() string {
	return string(c)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Category.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(e.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

func (b Budget) Validate() error {
	return b.Monthly.Validate()
}
