package handler

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/pkg/response"
	"Mastosync/internal/pkg/util"
	"Mastosync/internal/service"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountService service.AccountService
}

func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Login 使用访问令牌登录
func (s *AccountHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	account, err := s.accountService.Login(c.Request.Context(), req.Domain, req.AccessToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}

// GetActive 当前活跃账号
func (s *AccountHandler) GetActive(c *gin.Context) {
	account, err := s.accountService.ActiveAccount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}

// UpdatePreferences 修改账号级展示偏好
func (s *AccountHandler) UpdatePreferences(c *gin.Context) {
	var req dto.AccountPreferencesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	account, err := s.accountService.UpdatePreferences(c.Request.Context(), *req.AlwaysShowSensitiveMedia, *req.AlwaysOpenSpoiler)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}
