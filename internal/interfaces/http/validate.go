package http

import "github.com/go-playground/validator/v10"

// validate instancia compartida; es thread-safe y cachea metadata de structs.
var validate = validator.New()
