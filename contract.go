package watermarks

import (
	"context"
)

// SettingsProvider gives the resolver the current settings.
//
// It is asked again on every resolution so that settings changes are picked up.
type SettingsProvider interface {
	Settings() *Settings
}

// Project is a project of the host workspace.
type Project struct {
	Name string `json:"name" mapstructure:"name" validate:"required"`
	Root string `json:"root" mapstructure:"root" validate:"required"`
}

// ProjectLookup resolves files to the projects owning them.
type ProjectLookup interface {
	// FindProject returns the project owning filePath, or nil for files outside any project.
	FindProject(filePath string) (*Project, error)
	// Projects enumerates every project of the workspace.
	Projects() ([]Project, error)
}

// Diagnostics is an append-only sink for diagnostic messages.
type Diagnostics interface {
	Write(message string)
}

// ValidatableOptions is implemented by persisted forms that can check their own values.
type ValidatableOptions interface {
	Validate(context.Context) []error
}

// TransformableOptions is implemented by persisted forms that normalize their own values.
//
// Transform runs before Validate.
type TransformableOptions interface {
	Transform(context.Context) error
}
