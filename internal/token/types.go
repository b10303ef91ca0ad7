package token

import "github.com/franra18/ReViews/internal/core"

// Token type constants
const (
	TokenTypeBearer = "bearer"
)

// Result is an alias for core.TokenResult.
type Result = core.TokenResult

// ValidationResult is an alias for core.TokenValidationResult.
type ValidationResult = core.TokenValidationResult
