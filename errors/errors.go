package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError wraps multiple validation errors that occurred while loading the watermark settings.
type ValidationError struct {
	Source string
	Errors []error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Source != "" {
		sb.WriteString(fmt.Sprintf("invalid watermark settings from %s", e.Source))
	} else {
		sb.WriteString("invalid watermark settings")
	}
	if len(e.Errors) >= 1 {
		sb.WriteString(":")
	}

	for _, err := range e.Errors {
		sb.WriteString("\n       ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

// UnderlyingErrors returns the slice of individual validation errors (immutable).
func (e *ValidationError) UnderlyingErrors() []error {
	if e.Errors == nil {
		return nil
	}

	// Return a copy to prevent mutations
	result := make([]error, len(e.Errors))
	copy(result, e.Errors)

	return result
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSettings
}

var (
	ErrInvalidSettings    = errors.New("invalid settings")
	ErrProjectLookup      = errors.New("project lookup failed")
	ErrPathRelativization = errors.New("cannot relativize path")
	ErrMalformedPath      = errors.New("malformed path")
	ErrImageNotFound      = errors.New("image not found")
	ErrInvalidImage       = errors.New("invalid image")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidStyle       = errors.New("invalid style attribute")
)

// SubstitutionError represents a failure while replacing a placeholder token.
//
// Any of these aborts the whole substitution pass.
type SubstitutionError struct {
	Token string
	Path  string
	Err   error
}

func (e *SubstitutionError) Error() string {
	return fmt.Sprintf("token '%s': path '%s': %s", e.Token, e.Path, e.Err.Error())
}

func (e *SubstitutionError) Unwrap() error {
	return e.Err
}

// ImageNotFoundError represents an image watermark whose file does not exist
type ImageNotFoundError struct {
	ImagePath string
}

func (e *ImageNotFoundError) Error() string {
	return fmt.Sprintf("specified image not found: '%s'", e.ImagePath)
}

func (e *ImageNotFoundError) Unwrap() error {
	return ErrImageNotFound
}

// StyleAttributeError represents a style attribute that could not be converted into its rendered form
type StyleAttributeError struct {
	Attribute string
	Value     string
	Err       error
}

func (e *StyleAttributeError) Error() string {
	return fmt.Sprintf("unable to set the %s to '%s': %s", e.Attribute, e.Value, e.Err.Error())
}

func (e *StyleAttributeError) Unwrap() error {
	return e.Err
}

func NewSubstitutionError(token, path string, err error) error {
	return &SubstitutionError{
		Token: token,
		Path:  path,
		Err:   err,
	}
}

func NewImageNotFoundError(imagePath string) error {
	return &ImageNotFoundError{
		ImagePath: imagePath,
	}
}

func NewStyleAttributeError(attribute, value string, err error) error {
	return &StyleAttributeError{
		Attribute: attribute,
		Value:     value,
		Err:       err,
	}
}
