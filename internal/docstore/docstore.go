// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore saves the research document an agent produces and
// returns a reference to it.
package docstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Section is one headed block of a document.
type Section struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body" yaml:"body"`
}

// Document is a synthesized research document.
type Document struct {
	Title     string    `json:"title" yaml:"title"`
	SessionID string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Papers    []string  `json:"papers,omitempty" yaml:"papers,omitempty"`
	Sections  []Section `json:"sections" yaml:"-"`
}

// Store saves documents and returns a URL for each.
type Store interface {
	Save(ctx context.Context, doc Document) (string, error)
}

// frontMatter is the YAML header written above the Markdown body.
type frontMatter struct {
	Title     string    `yaml:"title"`
	SessionID string    `yaml:"session_id,omitempty"`
	Created   time.Time `yaml:"created"`
	Papers    []string  `yaml:"papers,omitempty"`
}

// FileStore writes documents as Markdown files with YAML front matter.
type FileStore struct {
	Dir string

	// Now stamps documents; tests pin it.
	Now func() time.Time
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir, Now: time.Now}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug returns a filesystem-safe stem for title.
func Slug(title string) string {
	s := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	if s == "" {
		s = "research"
	}
	return s
}

// Save writes doc to <Dir>/<slug>[-<session>].md through a temporary file
// and returns its file:// URL.
func (fs *FileStore) Save(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(doc.Title) == "" {
		return "", fmt.Errorf("document title is required")
	}
	if err := os.MkdirAll(fs.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", fs.Dir, err)
	}

	data, err := fs.render(doc)
	if err != nil {
		return "", err
	}

	name := Slug(doc.Title)
	if doc.SessionID != "" {
		name += "-" + doc.SessionID
	}
	destPath := filepath.Join(fs.Dir, name+".md")

	tmpFile, err := os.CreateTemp(fs.Dir, ".doc-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing document: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}

	abs, err := filepath.Abs(destPath)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

func (fs *FileStore) render(doc Document) ([]byte, error) {
	now := time.Now
	if fs.Now != nil {
		now = fs.Now
	}
	fm, err := yaml.Marshal(frontMatter{
		Title:     doc.Title,
		SessionID: doc.SessionID,
		Created:   now().UTC(),
		Papers:    doc.Papers,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling front matter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n# ")
	b.WriteString(doc.Title)
	b.WriteString("\n")
	for _, s := range doc.Sections {
		if s.Heading != "" {
			fmt.Fprintf(&b, "\n## %s\n", s.Heading)
		}
		fmt.Fprintf(&b, "\n%s\n", strings.TrimSpace(s.Body))
	}
	return b.Bytes(), nil
}

// ReadFrontMatter parses the YAML header of a saved document.
func ReadFrontMatter(path string) (title string, papers []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	rest, ok := bytes.CutPrefix(data, []byte("---\n"))
	if !ok {
		return "", nil, fmt.Errorf("%s: missing front matter", path)
	}
	header, _, ok := bytes.Cut(rest, []byte("\n---\n"))
	if !ok {
		return "", nil, fmt.Errorf("%s: unterminated front matter", path)
	}
	var fm frontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return "", nil, fmt.Errorf("parsing front matter: %w", err)
	}
	return fm.Title, fm.Papers, nil
}
