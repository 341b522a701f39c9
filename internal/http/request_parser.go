package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/core"
)

var errBadRequest = errors.New("bad request")

// budgetRequest accepts the amount either as a JSON number or a string.
type budgetRequest struct {
	Monthly json.RawMessage `json:"monthly"`
}

func (r budgetRequest) amount() string {
	return rawString(r.Monthly)
}

// expenseRequest is core.ExpenseInput with an amount that may be a JSON number.
type expenseRequest struct {
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Note     string          `json:"note"`
}

func (r expenseRequest) input() core.ExpenseInput {
	return core.ExpenseInput{
		Amount:   rawString(r.Amount),
		Category: r.Category,
		Date:     r.Date,
		Note:     r.Note,
	}
}

// rawString turns a JSON number or string into its textual value.
func rawString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}

// bindJSON decodes the body into dst, wrapping failures as errBadRequest.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid expense id %q", errBadRequest, raw)
	}
	return id, nil
}
