package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/taproot/pkg/core"
)

// frontmatter is the YAML header written above a note's content when
// exporting to Markdown.
type frontmatter struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title,omitempty"`
	Created string   `yaml:"created"`
	Tags    []string `yaml:"tags,omitempty"`
	Parent  string   `yaml:"parent,omitempty"`
	Images  []string `yaml:"images,omitempty"`
}

// MarshalMarkdown serializes a note to Markdown with YAML frontmatter.
func MarshalMarkdown(n core.Note) ([]byte, error) {
	fm := frontmatter{
		ID:      n.ID,
		Title:   n.Title,
		Created: n.CreatedAt.UTC().Format(time.RFC3339),
		Tags:    n.Tags,
		Parent:  n.Parent(),
		Images:  n.ImageURIs,
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fm); err != nil {
		return nil, err
	}
	encoder.Close()
	buf.WriteString("---\n")
	buf.WriteString(n.Content)
	return buf.Bytes(), nil
}

// UnmarshalMarkdown parses a Markdown file with optional YAML
// frontmatter back into a note. A file without frontmatter becomes a
// content-only note; frontmatter that opens without closing is an error.
func UnmarshalMarkdown(data []byte) (core.Note, error) {
	n := core.Note{}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		n.Content = string(data)
		return n, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("---"), 2)
	if len(parts) == 1 {
		return core.Note{}, errors.New("frontmatter started but no closing delimiter found")
	}

	var fm frontmatter
	if err := yaml.Unmarshal(parts[0], &fm); err != nil {
		return core.Note{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	n.ID = fm.ID
	n.Title = fm.Title
	n.Tags = fm.Tags
	n.ImageURIs = fm.Images
	if fm.Parent != "" {
		p := fm.Parent
		n.ParentID = &p
	}
	if fm.Created != "" {
		created, err := time.Parse(time.RFC3339, fm.Created)
		if err != nil {
			return core.Note{}, fmt.Errorf("invalid created timestamp: %w", err)
		}
		n.CreatedAt = created
	}

	content := string(parts[1])
	content = strings.TrimPrefix(content, "\n")
	content = strings.TrimPrefix(content, "\r\n")
	n.Content = content
	return n, nil
}

// ExportAll writes every note as <id>.md into dir and returns the count.
func (s *Store) ExportAll(ctx context.Context, dir string) (int, error) {
	notes, _, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("notes: failed to create export directory: %w", err)
	}

	for i, n := range notes {
		data, err := MarshalMarkdown(n)
		if err != nil {
			return i, fmt.Errorf("notes: failed to serialize %q: %w", n.ID, err)
		}
		path := filepath.Join(dir, n.ID+".md")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return i, fmt.Errorf("notes: failed to write %s: %w", path, err)
		}
	}
	return len(notes), nil
}
