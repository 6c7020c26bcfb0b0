package validate

import "github.com/go-playground/validator/v10"

// SyntaxChecker is the production EmailChecker, backed by validator/v10's
// email rule.
type SyntaxChecker struct {
	v *validator.Validate
}

// NewSyntaxChecker builds a checker with a dedicated validator instance.
func NewSyntaxChecker() *SyntaxChecker {
	return &SyntaxChecker{v: validator.New()}
}

// Check reports whether address is a syntactically valid email address.
// The empty string is invalid.
func (c *SyntaxChecker) Check(address string) bool {
	return c.v.Var(address, "required,email") == nil
}
