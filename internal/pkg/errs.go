package pkg

import "errors"

// 业务错误集合，handler 层用 errors.Is 映射为 HTTP 状态码
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrTextRequired = errors.New("text required")
	ErrSelfFollow   = errors.New("cannot follow self")
)
