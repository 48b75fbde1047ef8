package post

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// datePrefixRe matches a leading YYYY-MM-DD- date prefix in a filename.
var datePrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)

// slugifyRe removes characters that are not alphanumeric, hyphens, or periods.
var slugifyRe = regexp.MustCompile(`[^a-z0-9\-.]`)

// multiHyphenRe collapses multiple consecutive hyphens into one.
var multiHyphenRe = regexp.MustCompile(`-{2,}`)

// Discover walks dir and returns the paths of all post files in it, sorted
// by name. Hidden files and directories are skipped.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, err := FormatOf(path); err != nil {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking post directory: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadDir loads every post under dir. Files that fail to load are reported
// together after all others have been read.
func LoadDir(dir string) ([]*Document, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	docs := make([]*Document, 0, len(paths))
	var errs []error
	for _, p := range paths {
		doc, err := Read(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errors.Join(errs...)
}

// SortNewest orders docs by date, newest first, then by path.
func SortNewest(docs []*Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].Date.Equal(docs[j].Date) {
			return docs[i].Date.After(docs[j].Date)
		}
		return docs[i].Path < docs[j].Path
	})
}

// IsPostFile reports whether path names a file Discover would pick up.
func IsPostFile(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	_, err := FormatOf(path)
	return err == nil
}

// slugFromPath derives a slug from the file name, dropping the extension and
// a leading date prefix.
func slugFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = datePrefixRe.ReplaceAllString(name, "")
	return slugify(name)
}

// slugify lowercases name, replaces spaces and underscores with hyphens,
// drops other punctuation and collapses repeated hyphens.
func slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = slugifyRe.ReplaceAllString(s, "")
	s = multiHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
