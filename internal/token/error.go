package token

import "errors"

// ErrUnterminatedEscape indicates the pattern ends with a lone `\`.
var ErrUnterminatedEscape = errors.New("unterminated escape")
