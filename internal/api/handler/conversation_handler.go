package handler

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/pkg/response"
	"Mastosync/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	conversationService service.ConversationService
	pager               service.ConversationPager
}

func NewConversationHandler(conversationService service.ConversationService, pager service.ConversationPager) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		pager:               pager,
	}
}

// List 本地会话列表
func (s *ConversationHandler) List(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.conversationService.List(c.Request.Context(), offset, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Refresh 从第一页重新同步
func (s *ConversationHandler) Refresh(c *gin.Context) {
	res, err := s.pager.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// LoadMore 同步下一页
func (s *ConversationHandler) LoadMore(c *gin.Context) {
	res, err := s.pager.LoadMore(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ConversationHandler) Delete(c *gin.Context) {
	if err := s.conversationService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ConversationHandler) MarkRead(c *gin.Context) {
	res, err := s.conversationService.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateFlags 展开/折叠/显示敏感内容
func (s *ConversationHandler) UpdateFlags(c *gin.Context) {
	var req dto.ConversationFlagsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.conversationService.UpdateFlags(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
