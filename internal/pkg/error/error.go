package error

import (
	"errors"
	"net/http"
)

type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	errorDesc string
}

func New(httpCode, errorCode int, errorMsg string, errorDesc string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		errorDesc: errorDesc,
	}
}

func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return InternalServer(err.Error())
}

// ✅ 用戶端錯誤 (400 系列)
func ValidateErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, "bad-request/body", errorDesc)
}

func NoPhotoUploaded() *Error {
	return New(http.StatusBadRequest, NO_PHOTO_UPLOADED, "No photo uploaded", "multipart field \"photo\" is required")
}

func BadRequest(errorDesc string, errorCode ...int) *Error {
	errCode := BAD_REQUEST_BODY
	if len(errorCode) > 0 {
		errCode = errorCode[0]
	}
	return New(http.StatusBadRequest, errCode, "bad-request", errorDesc)
}

func NotFound(errorDesc string) *Error {
	return New(http.StatusNotFound, NOT_FOUND, "not-found", errorDesc)
}

// ✅ 伺服器內部錯誤 (500 系列)
func InternalServer(errorDesc string) *Error {
	return New(http.StatusInternalServerError, INTERNAL_ERROR, "internal-server-error", errorDesc)
}

func ServiceUnavailable(errorDesc string) *Error {
	return New(http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, "service-unavailable", errorDesc)
}

// PreprocessFailed 圖片無法讀取或壓縮
func PreprocessFailed(errorDesc string) *Error {
	return New(http.StatusInternalServerError, PREPROCESS_FAILED, "preprocess-failed", errorDesc)
}

func StorageFailed(errorDesc string) *Error {
	return New(http.StatusInternalServerError, STORAGE_FAILED, "storage-failed", errorDesc)
}

// ✅ 模型供應商錯誤：一律回 500，不重試
func UpstreamFailed(errorDesc string) *Error {
	return New(http.StatusInternalServerError, EXTERNAL_REQUEST_ERROR, "upstream-request-failed", errorDesc)
}

func UpstreamResponseInvalid(errorDesc string) *Error {
	return New(http.StatusInternalServerError, EXTERNAL_RESPONSE_FORMAT_ERROR, "upstream-response-invalid", errorDesc)
}

func GatewayTimeout(errorDesc string) *Error {
	return New(http.StatusGatewayTimeout, GATEWAY_TIMEOUT, "gateway-timeout", errorDesc)
}

func (e *Error) HttpCode() int {
	return e.httpCode
}

func (e *Error) ErrorCode() int {
	return e.errorCode
}

func (e *Error) ErrorDesc() string {
	return e.errorDesc
}

func (e *Error) Error() string {
	return e.errorMsg
}

// Message 給使用者看的訊息：有描述時附上描述
func (e *Error) Message() string {
	if e.errorDesc == "" {
		return e.errorMsg
	}
	return e.errorMsg + ": " + e.errorDesc
}

func MapHttpStatusToError(status int, desc string) *Error {
	switch status {
	case http.StatusBadRequest:
		return BadRequest(desc)
	case http.StatusNotFound:
		return NotFound(desc)
	case http.StatusServiceUnavailable:
		return ServiceUnavailable(desc)
	case http.StatusGatewayTimeout:
		return GatewayTimeout(desc)
	default:
		return InternalServer(desc)
	}
}
