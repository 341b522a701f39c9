package http

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/charts"
	"budgetapp/internal/log"
)

func (s *Server) handleCategoryChart(c *gin.Context) {
	parts := s.ledger.ByCategory(c.Request.Context())
	h := fnv.New64a()
	for _, p := range parts {
		fmt.Fprintf(h, "%s|%d|", p.Category, p.Amount.Cents)
	}
	s.serveChart(c, "pie:"+strconv.FormatUint(h.Sum64(), 16), func(buf *bytes.Buffer) error {
		return s.charts.CategoryPie(buf, parts)
	})
}

func (s *Server) handleHistoryChart(c *gin.Context) {
	expenses := s.ledger.List(c.Request.Context())
	h := fnv.New64a()
	for _, e := range expenses {
		fmt.Fprintf(h, "%d|%s|%d|", e.ID, e.Category, e.Amount.Cents)
	}
	s.serveChart(c, "bars:"+strconv.FormatUint(h.Sum64(), 16), func(buf *bytes.Buffer) error {
		return s.charts.ExpenseBars(buf, expenses)
	})
}

// serveChart answers from the chart cache or renders and caches the PNG.
// An empty ledger yields 204 so the page can hide the image.
func (s *Server) serveChart(c *gin.Context, key string, render func(*bytes.Buffer) error) {
	if png, ok := s.chartCache.Get(key); ok {
		s.metrics.ChartCacheLookup(true)
		c.Data(http.StatusOK, "image/png", png)
		return
	}
	s.metrics.ChartCacheLookup(false)

	var buf bytes.Buffer
	err := render(&buf)
	if errors.Is(err, charts.ErrNoData) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "Chart rendering failed",
			log.FieldOperation, key, log.FieldError, err.Error())
		s.abortWithError(c, err)
		return
	}
	s.chartCache.Set(key, buf.Bytes())
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
