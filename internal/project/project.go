// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package project locates the book project root and reads the handful of
// mkdocs.yml fields the pipeline needs.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

// MarkerFile is the configuration file that identifies a project root.
const MarkerFile = "mkdocs.yml"

// FindRoot walks up from start (or the working directory when start is
// empty) until it finds a directory containing mkdocs.yml. Returns the
// absolute path of that directory.
func FindRoot(start string) (string, error) {
	dir := start
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	for {
		marker := filepath.Join(dir, MarkerFile)
		if info, err := os.Stat(marker); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in %s or any parent directory", MarkerFile, start)
		}
		dir = parent
	}
}

// Site holds the mkdocs.yml fields the pipeline reads.
type Site struct {
	SiteName string `yaml:"site_name"`
	SiteURL  string `yaml:"site_url"`
	DocsDir  string `yaml:"docs_dir"`
}

// topLevelField matches a scalar "key: value" line at column zero.
var topLevelField = regexp.MustCompile(`^([a-z_]+):\s*(.+)$`)

// LoadSite reads site_name, site_url, and docs_dir from the project's
// mkdocs.yml. Real-world mkdocs.yml files often carry custom tags
// (!!python/name:...) that strict YAML parsing rejects, so a line scan for
// top-level scalar fields is the fallback. DocsDir defaults to "docs".
func LoadSite(projectDir string) (Site, error) {
	path := filepath.Join(projectDir, MarkerFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		site = scanSiteFields(string(data))
	}

	if site.DocsDir == "" {
		site.DocsDir = "docs"
	}
	return site, nil
}

func scanSiteFields(content string) Site {
	var site Site
	for _, line := range strings.Split(content, "\n") {
		m := topLevelField.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		val := strings.Trim(strings.TrimSpace(m[2]), `'"`)
		switch m[1] {
		case "site_name":
			site.SiteName = val
		case "site_url":
			site.SiteURL = val
		case "docs_dir":
			site.DocsDir = val
		}
	}
	return site
}
