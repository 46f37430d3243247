package watermarks

import (
	"strings"

	watermarkserrors "github.com/leodido/watermarks/errors"
	internalpathutil "github.com/leodido/watermarks/internal/pathutil"
)

// Text returns the text to display for filePath.
//
// An empty string means nothing should be displayed, including when any replacement failed.
func (r *Resolver) Text(filePath string) string {
	s := r.settings()
	if s == nil {
		return ""
	}

	return r.text(s, filePath)
}

func (r *Resolver) text(s *Settings, filePath string) string {
	text, err := r.substitute(s, filePath)
	if err != nil {
		r.Report("Unable to set the text to "+s.Text(), err)

		return ""
	}

	return text
}

// substitute replaces the tokens used by the template.
//
// Any failure discards the whole result: a half replaced text is never returned.
func (r *Resolver) substitute(s *Settings, filePath string) (string, error) {
	t := s.Template()
	if !t.UsesAny() {
		return t.Raw(), nil
	}

	// Documents still loading have no name yet, nothing the user can act on.
	if strings.TrimSpace(filePath) == "" {
		r.logger.Debug("unable to get name of the current file")

		return "", nil
	}
	if err := internalpathutil.Check(filePath); err != nil {
		return "", watermarkserrors.NewSubstitutionError(t.Raw(), filePath, err)
	}

	text := t.Format()

	if t.Uses(TokenFileName) {
		text = strings.ReplaceAll(text, CurrentFileName, internalpathutil.Base(filePath))
	}

	if t.Uses(TokenDirectoryName) {
		text = strings.ReplaceAll(text, CurrentDirectoryName, internalpathutil.Base(internalpathutil.Dir(filePath)))
	}

	if !t.Uses(TokenProjectName) && !t.Uses(TokenFilePathInProject) {
		return text, nil
	}

	project, err := r.findProject(filePath)
	if err != nil {
		token := CurrentProjectName
		if !t.Uses(TokenProjectName) {
			token = CurrentFilePathInProject
		}

		return "", watermarkserrors.NewSubstitutionError(token, filePath, err)
	}

	// Without a project the token stays as is.
	if t.Uses(TokenProjectName) && project != nil {
		text = strings.ReplaceAll(text, CurrentProjectName, project.Name)
	}

	if t.Uses(TokenFilePathInProject) {
		inProject, err := r.pathInProject(s, project, filePath)
		if err != nil {
			return "", watermarkserrors.NewSubstitutionError(CurrentFilePathInProject, filePath, err)
		}
		text = strings.ReplaceAll(text, CurrentFilePathInProject, inProject)
	}

	return text, nil
}

// pathInProject returns filePath relative to its project root.
//
// Files outside any project are made relative to the first project containing one of the relative folders, then to the first matching absolute folder.
// It returns an empty string when nothing matches.
func (r *Resolver) pathInProject(s *Settings, project *Project, filePath string) (string, error) {
	if project != nil && project.Root != "" {
		if rest, ok := internalpathutil.TrimPrefixFold(filePath, project.Root); ok {
			return rest, nil
		}
	} else {
		for _, folder := range s.RelativeFolders() {
			root, err := r.miscProjectRoot(folder, filePath)
			if err != nil {
				return "", err
			}
			if root == "" {
				continue
			}
			if rest, ok := internalpathutil.TrimPrefixFold(filePath, root); ok {
				return rest, nil
			}
		}
	}

	for _, folder := range s.AbsoluteFolders() {
		if rest, ok := internalpathutil.TrimPrefixFold(filePath, folder); ok {
			return rest, nil
		}
	}

	return "", nil
}
