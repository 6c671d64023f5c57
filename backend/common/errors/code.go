package errors

// 通用错误码
const (
	ErrRouteNotFound = "ERR_ROUTE_NOT_FOUND"
	ErrRateLimited   = "ERR_RATE_LIMITED"
)

// 上传相关错误码
const (
	ErrNoFileUploaded   = "ERR_NO_FILE_UPLOADED"
	ErrValidationFailed = "ERR_VALIDATION_FAILED"
	ErrTooManyFiles     = "ERR_TOO_MANY_FILES"
	ErrSaveFailed       = "ERR_SAVE_FAILED"
	ErrRequestTooLarge  = "ERR_REQUEST_TOO_LARGE"
	ErrInvalidUpload    = "ERR_INVALID_UPLOAD"
)

// 文件管理相关错误码
const (
	ErrInvalidCategory = "ERR_INVALID_CATEGORY"
	ErrInvalidFilename = "ERR_INVALID_FILENAME"
	ErrDeleteFailed    = "ERR_DELETE_FAILED"
)

// 成功消息
const (
	MsgFileDeleted = "MSG_FILE_DELETED"
)
