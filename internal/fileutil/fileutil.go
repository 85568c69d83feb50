// Package fileutil holds small filesystem helpers shared by the CLI and the
// batch runner.
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// videoExtensions lists the container formats the tool operates on.
var videoExtensions = map[string]struct{}{
	".mkv":  {},
	".mp4":  {},
	".avi":  {},
	".mov":  {},
	".m4v":  {},
	".ts":   {},
	".webm": {},
}

// IsVideo reports whether path has a recognized video container extension.
func IsVideo(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := videoExtensions[ext]
	return ok
}

// VideoExtensions returns the recognized extensions in sorted order.
func VideoExtensions() []string {
	exts := make([]string, 0, len(videoExtensions))
	for ext := range videoExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// CollectVideos expands a mix of file and directory arguments into a list of
// video files. Files are taken as given when they carry a video extension,
// directories are scanned (recursively when recursive is set) in lexical
// order. Duplicates keep their first position.
func CollectVideos(paths []string, recursive bool) ([]string, error) {
	var videos []string
	seen := make(map[string]struct{})

	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		videos = append(videos, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("collect videos: %w", err)
		}
		if !info.IsDir() {
			if !IsVideo(path) {
				return nil, fmt.Errorf("collect videos: %s is not a recognized video file", path)
			}
			add(path)
			continue
		}
		if err := collectDir(path, recursive, add); err != nil {
			return nil, err
		}
	}
	return videos, nil
}

func collectDir(dir string, recursive bool, add func(string)) error {
	if recursive {
		return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("collect videos: %w", err)
			}
			if !d.IsDir() && IsVideo(path) {
				add(path)
			}
			return nil
		})
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("collect videos: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if path := filepath.Join(dir, entry.Name()); IsVideo(path) {
			add(path)
		}
	}
	return nil
}
