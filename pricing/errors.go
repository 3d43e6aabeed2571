package pricing

import "errors"

// ErrInvalidParameter 表示曲线参数非法（例如偶数指数），属于配置错误。
var ErrInvalidParameter = errors.New("invalid curve parameter")
