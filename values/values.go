package values

import (
	"fmt"
	"strings"

	"github.com/leodido/watermarks"
	"github.com/leodido/watermarks/style"
	"github.com/spf13/pflag"
)

// foldersValue implements pflag.Value for a repeatable folder filter.
type foldersValue struct {
	f *[]string
}

// NewFolders creates a value appending every occurrence to p.
//
// A single occurrence can also hold a semicolon separated list.
func NewFolders(p *[]string) *foldersValue {
	return &foldersValue{f: p}
}

func (f *foldersValue) String() string {
	if f.f == nil {
		return ""
	}

	return strings.Join(*f.f, ";")
}

func (f *foldersValue) Set(val string) error {
	for _, entry := range strings.Split(val, ";") {
		if entry = strings.TrimSpace(entry); entry != "" {
			*f.f = append(*f.f, entry)
		}
	}

	return nil
}

func (f *foldersValue) Type() string {
	return "folders"
}

var _ pflag.Value = (*foldersValue)(nil)

// projectsValue implements pflag.Value for repeatable name=root project definitions.
type projectsValue struct {
	p *[]watermarks.Project
}

func NewProjects(p *[]watermarks.Project) *projectsValue {
	return &projectsValue{p: p}
}

func (p *projectsValue) String() string {
	if p.p == nil {
		return ""
	}
	parts := make([]string, 0, len(*p.p))
	for _, project := range *p.p {
		parts = append(parts, project.Name+"="+project.Root)
	}

	return strings.Join(parts, ",")
}

func (p *projectsValue) Set(val string) error {
	name, root, ok := strings.Cut(val, "=")
	name = strings.TrimSpace(name)
	root = strings.TrimSpace(root)
	if !ok || name == "" || root == "" {
		return fmt.Errorf("expected name=root, got '%s'", val)
	}
	// Only assign on success
	*p.p = append(*p.p, watermarks.Project{Name: name, Root: root})

	return nil
}

func (p *projectsValue) Type() string {
	return "project"
}

var _ pflag.Value = (*projectsValue)(nil)

// colorValue implements pflag.Value for a color name or hex code.
type colorValue struct {
	c *string
}

func NewColor(p *string) *colorValue {
	return &colorValue{c: p}
}

func (c *colorValue) String() string {
	if c.c == nil {
		return ""
	}

	return *c.c
}

func (c *colorValue) Set(val string) error {
	if _, err := style.ParseColor(val); err != nil {
		return err
	}
	*c.c = strings.TrimSpace(val)

	return nil
}

func (c *colorValue) Type() string {
	return "color"
}

var _ pflag.Value = (*colorValue)(nil)
