package keys

import "errors"

// ErrKeyCorruption reports that a sealed key blob carries more bit
// errors than the outer code can correct, or that its ciphertext fails
// authentication after correction.
var ErrKeyCorruption = errors.New("keys: sealed blob corrupted")

// ErrSignatureDecode reports a malformed signature encoding.
var ErrSignatureDecode = errors.New("keys: malformed signature encoding")
