package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/ledger"
)

func (s *Server) handleListExpenses(c *gin.Context) {
	category := c.DefaultQuery("category", ledger.AllCategories)
	c.JSON(http.StatusOK, s.ledger.Filter(c.Request.Context(), c.Query("q"), category))
}

func (s *Server) handleGetExpense(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	e, err := s.ledger.Get(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) handleCreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := bindJSON(c, &req); err != nil {
		s.abortWithError(c, err)
		return
	}
	e, err := s.ledger.Add(c.Request.Context(), req.input())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *Server) handleUpdateExpense(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	var req expenseRequest
	if err := bindJSON(c, &req); err != nil {
		s.abortWithError(c, err)
		return
	}
	e, err := s.ledger.Update(c.Request.Context(), id, req.input())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if err := s.ledger.Delete(c.Request.Context(), id); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetBudget(c *gin.Context) {
	b, ok := s.ledger.Budget(c.Request.Context())
	if !ok {
		c.JSON(http.StatusOK, budgetResponse{})
		return
	}
	c.JSON(http.StatusOK, budgetResponse{Monthly: &b.Monthly})
}

func (s *Server) handleSetBudget(c *gin.Context) {
	var req budgetRequest
	if err := bindJSON(c, &req); err != nil {
		s.abortWithError(c, err)
		return
	}
	m, err := s.ledger.SetMonthlyBudgetString(c.Request.Context(), req.amount())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, budgetResponse{Monthly: &m})
}

func (s *Server) handleOverview(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.Overview(c.Request.Context()))
}
