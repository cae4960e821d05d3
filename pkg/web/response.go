// Package web defines common components for a web application.
package web

import "github.com/go-playground/validator/v10"

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	AccessToken          string `json:"access_token,omitempty"`
	AccessTokenExpiresAt string `json:"access_token_expires_at,omitempty"`
	Data                 any    `json:"data,omitempty"`
	Error                string `json:"error,omitempty"`
}

// GetErrorMsg maps a validator field error to a readable message suffix.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "alphanum":
		return " must contain only letters and numbers"
	case "min":
		return " must be at least " + fe.Param() + " characters"
	case "email":
		return " must be a valid email address"
	case "currency":
		return " is not a registered currency"
	case "amount":
		return " must be a positive number"
	}

	return " is invalid"
}
