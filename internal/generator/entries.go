package generator

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// RouteTemplate is the file name that turns a directory under src/app into a route.
const RouteTemplate = "index.html"

// Entry describes one routed page of the application.
type Entry struct {
	// RoutePath is the router path; "" for the root page. Directory
	// segments starting with "_" become route parameters (":id").
	RoutePath string `json:"routePath"`
	// TemplatePath is the slash-separated template path relative to src/app.
	TemplatePath string `json:"templatePath"`
	// ComponentName is the generated component class name.
	ComponentName string `json:"componentName"`
}

// Discover walks <root>/src/app and returns one entry per route template,
// ordered by route path. A project without src/app has no entries.
func Discover(root string) ([]Entry, error) {
	appDir := filepath.Join(root, "src", "app")
	var entries []Entry

	err := filepath.WalkDir(appDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != appDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != RouteTemplate {
			return nil
		}
		rel, err := filepath.Rel(appDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		entries = append(entries, Entry{
			RoutePath:    routePath(strings.TrimSuffix(strings.TrimSuffix(rel, RouteTemplate), "/")),
			TemplatePath: rel,
		})
		return nil
	})
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("discover routes in %s: %w", appDir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RoutePath < entries[j].RoutePath })
	for i := range entries {
		entries[i].ComponentName = fmt.Sprintf("SPR_%d_IndexComponent", i)
	}
	return entries, nil
}

func routePath(dir string) string {
	if dir == "" {
		return ""
	}
	segments := strings.Split(dir, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, "_") && len(s) > 1 {
			segments[i] = ":" + s[1:]
		}
	}
	return strings.Join(segments, "/")
}
