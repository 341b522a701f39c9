package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/core"
)

func (s *Server) handleSignUp(c *gin.Context) {
	var req core.Credentials
	if err := bindJSON(c, &req); err != nil {
		s.abortWithError(c, err)
		return
	}
	user, err := s.session.SignUp(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserView(user))
}

func (s *Server) handleLogin(c *gin.Context) {
	var req core.Credentials
	if err := bindJSON(c, &req); err != nil {
		s.abortWithError(c, err)
		return
	}
	user, err := s.session.Login(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	token, exp, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: exp.Unix(), User: newUserView(user)})
}

// handleLogout wipes all local data; the token stops working because its
// subject is no longer stored.
func (s *Server) handleLogout(c *gin.Context) {
	if err := s.session.Logout(c.Request.Context()); err != nil {
		s.abortWithError(c, err)
		return
	}
	s.chartCache.Purge()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, newUserView(currentUser(c)))
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req core.ProfileInput
	if err := bindJSON(c, &req); err != nil {
		s.abortWithError(c, err)
		return
	}
	user, err := s.session.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}
