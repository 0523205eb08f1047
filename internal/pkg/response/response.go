package response

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/pkg/mastodon"
	"Mastosync/internal/service"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
	BadGateway          = 502
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	// 远端实例返回的错误
	var loadErr *service.LoadError
	if errors.As(err, &loadErr) {
		Fail(c, BadGateway, upstreamMessage(loadErr.StatusCode))
		return
	}
	var httpErr *mastodon.HTTPError
	if errors.As(err, &httpErr) {
		Fail(c, BadGateway, upstreamMessage(httpErr.StatusCode))
		return
	}

	code, ok := service.ErrorMap[err]
	if !ok {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
		Fail(c, InternalServerError, service.UnExpectedError.Error())
		return
	}
	Fail(c, code, err.Error())
}

func upstreamMessage(status int) string {
	if status == 0 {
		return "实例连接失败"
	}
	return fmt.Sprintf("实例返回错误 HTTP %d", status)
}
