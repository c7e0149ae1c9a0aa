package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	UserName string `json:"userName"`
	Token    string `json:"token"`
}

func (h *handlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "userName and password are required")
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{UserName: req.UserName, Token: token})
}

func (h *handlers) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "userName and password are required")
		return
	}

	token, err := h.accounts.Register(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info(c.Request.Context(), "Registered", "username", req.UserName)
	c.JSON(http.StatusOK, authResponse{UserName: req.UserName, Token: token})
}
