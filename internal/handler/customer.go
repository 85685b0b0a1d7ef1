package handler

import (
	"net/http"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/service"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/util"

	"github.com/gin-gonic/gin"
)

// CustomerHandler exposes customer creation and lookup.
type CustomerHandler struct {
	Service *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: svc}
}

type customerReq struct {
	Name  string `json:"name" binding:"required,max=128"`
	Email string `json:"email" binding:"required,email"`
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	resp, err := h.Service.Create(c.Request.Context(), service.CustomerRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message":  "Customer created successfully",
		"customer": resp,
	})
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	resp, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	util.Success(c, util.Response{
		"customer": resp,
	})
}
