package handler

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/pkg/response"
	"Mastosync/internal/pkg/util"
	"Mastosync/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (s *SettingsHandler) GetDomain(c *gin.Context) {
	res, err := s.settingsService.Domain(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SetDomain 切换实例，不影响已登录账号的数据
func (s *SettingsHandler) SetDomain(c *gin.Context) {
	var req dto.DomainReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	res, err := s.settingsService.SetDomain(c.Request.Context(), req.Domain)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *SettingsHandler) GetProxy(c *gin.Context) {
	res, err := s.settingsService.Proxy(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *SettingsHandler) SetProxy(c *gin.Context) {
	var req dto.ProxySettingsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.settingsService.SetProxy(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
