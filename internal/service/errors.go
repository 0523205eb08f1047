package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	BadGateway          = 502
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrDomainInvalid        = errors.New("实例域名无效")
	ErrProxyInvalid         = errors.New("代理设置无效")
	ErrNoActiveAccount      = errors.New("尚未登录任何账号")
	ErrAccountNotFound      = errors.New("账号不存在")
	ErrLoginFailed          = errors.New("登录失败，请检查实例域名与访问令牌")
	ErrConversationNotFound = errors.New("会话不存在")
	ErrLoadInProgress       = errors.New("同步正在进行中")
	ErrFileNotExist         = errors.New("文件不存在")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrDomainInvalid:        BadRequest,
	ErrProxyInvalid:         BadRequest,
	ErrNoActiveAccount:      Unauthorized,
	ErrAccountNotFound:      NotFound,
	ErrLoginFailed:          Unauthorized,
	ErrConversationNotFound: NotFound,
	ErrLoadInProgress:       Conflict,
	ErrFileNotExist:         NotFound,
	UnExpectedError:         InternalServerError,
}
