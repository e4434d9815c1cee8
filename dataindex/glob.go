package dataindex

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// expandDirGlobs expands acquisition globs to directories, dropping
// duplicates and anything that is not a directory.
func expandDirGlobs(globs []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range globs {
		if strings.TrimSpace(g) == "" {
			continue
		}
		matches, err := globDirs(g)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// globDirs returns the directories matching pattern. Segments follow
// path.Match, and a segment of exactly ** spans any number of directory
// levels, including none.
func globDirs(pattern string) ([]string, error) {
	root, segs := splitGlob(pattern)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil
	}
	if len(segs) == 0 {
		return []string{root}, nil
	}
	for _, s := range segs {
		if _, err := path.Match(s, ""); err != nil {
			return nil, err
		}
	}

	// Without ** nothing deeper than len(segs) can match.
	maxDepth := len(segs)
	for _, s := range segs {
		if s == "**" {
			maxDepth = -1
			break
		}
	}

	var out []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			// Unreadable subtrees are skipped.
			return nil
		}
		if !d.IsDir() || p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if matchSegments(segs, parts) {
			out = append(out, p)
		}
		if maxDepth >= 0 && len(parts) >= maxDepth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// splitGlob separates the literal leading directory of pattern from the
// segments that need matching.
func splitGlob(pattern string) (string, []string) {
	clean := filepath.ToSlash(filepath.Clean(pattern))
	parts := strings.Split(clean, "/")
	k := 0
	for k < len(parts) && !strings.ContainsAny(parts[k], `*?[\`) {
		k++
	}
	root := strings.Join(parts[:k], "/")
	switch {
	case root == "" && strings.HasPrefix(clean, "/"):
		root = "/"
	case root == "":
		root = "."
	}
	return filepath.FromSlash(root), parts[k:]
}

// matchSegments reports whether parts matches segs. Patterns were checked
// by the caller, so path.Match errors cannot occur here.
func matchSegments(segs, parts []string) bool {
	if len(segs) == 0 {
		return len(parts) == 0
	}
	if segs[0] == "**" {
		for i := 0; i <= len(parts); i++ {
			if matchSegments(segs[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	if ok, _ := path.Match(segs[0], parts[0]); !ok {
		return false
	}
	return matchSegments(segs[1:], parts[1:])
}
