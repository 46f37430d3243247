package workspace

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/leodido/watermarks"
	watermarkserrors "github.com/leodido/watermarks/errors"
	internalpathutil "github.com/leodido/watermarks/internal/pathutil"
	"github.com/spf13/viper"
)

// Key is the configuration key listing the projects.
const Key = "projects"

var _ watermarks.ProjectLookup = (*Workspace)(nil)

// Workspace is a static set of projects, each one owning the files below its root.
type Workspace struct {
	projects []watermarks.Project
}

// New creates a workspace holding projects, in enumeration order.
func New(projects ...watermarks.Project) *Workspace {
	w := &Workspace{}
	w.projects = append(w.projects, projects...)

	return w
}

// Load reads the projects listed under Key in v.
//
// A missing key gives an empty workspace.
func Load(v *viper.Viper) (*Workspace, error) {
	var projects []watermarks.Project
	if err := v.UnmarshalKey(Key, &projects); err != nil {
		return nil, fmt.Errorf("couldn't decode the projects: %w", err)
	}

	validate := validator.New()
	var errs []error
	for i := range projects {
		if err := validate.Struct(projects[i]); err != nil {
			errs = append(errs, fmt.Errorf("project #%d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return nil, &watermarkserrors.ValidationError{
			Source: v.ConfigFileUsed(),
			Errors: errs,
		}
	}

	return New(projects...), nil
}

// FindProject returns the project with the deepest root containing filePath.
func (w *Workspace) FindProject(filePath string) (*watermarks.Project, error) {
	var found *watermarks.Project
	for i := range w.projects {
		p := &w.projects[i]
		if !internalpathutil.Within(filePath, p.Root) {
			continue
		}
		if found == nil || len(p.Root) > len(found.Root) {
			found = p
		}
	}
	if found == nil {
		return nil, nil
	}
	res := *found

	return &res, nil
}

// Projects returns a copy of the projects in enumeration order.
func (w *Workspace) Projects() ([]watermarks.Project, error) {
	res := make([]watermarks.Project, len(w.projects))
	copy(res, w.projects)

	return res, nil
}
