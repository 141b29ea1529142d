package catalog

import "testing"

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTitle string
		wantDesc  string
	}{
		{
			name:      "heading and blockquote",
			text:      "# Azure AD Authentication with MSAL\n\n> Proven pattern for SPA auth.\n\n```ts\ncode\n```\n",
			wantTitle: "Azure AD Authentication with MSAL",
			wantDesc:  "Proven pattern for SPA auth.",
		},
		{
			name:      "heading only",
			text:      "# React Router Navigation Pattern\n\nSome body text.\n",
			wantTitle: "React Router Navigation Pattern",
			wantDesc:  "",
		},
		{
			name:      "blockquote only",
			text:      "> Just a description.\n\nbody\n",
			wantTitle: "",
			wantDesc:  "Just a description.",
		},
		{
			name:      "neither",
			text:      "plain text without markers\n",
			wantTitle: "",
			wantDesc:  "",
		},
		{
			name:      "first heading wins",
			text:      "# First Title\n\n# Second Title\n\n> First quote\n\n> Second quote\n",
			wantTitle: "First Title",
			wantDesc:  "First quote",
		},
		{
			name:      "level two heading ignored",
			text:      "## Subheading\n\n# Real Title\n",
			wantTitle: "Real Title",
			wantDesc:  "",
		},
		{
			name:      "hash without space ignored",
			text:      "#NoSpace\n# Spaced Title\n",
			wantTitle: "Spaced Title",
			wantDesc:  "",
		},
		{
			name:      "blockquote later in file",
			text:      "# Title\n\nIntro paragraph.\n\n> Late description\n",
			wantTitle: "Title",
			wantDesc:  "Late description",
		},
		{
			name:      "empty input",
			text:      "",
			wantTitle: "",
			wantDesc:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, desc := ExtractMetadata(tt.text)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if desc != tt.wantDesc {
				t.Errorf("description = %q, want %q", desc, tt.wantDesc)
			}
		})
	}
}

func TestParseMetadataFrontmatterOverride(t *testing.T) {
	content := []byte("---\ntitle: Frontmatter Title\ndescription: Frontmatter description\n---\n# Body Title\n\n> Body description\n")

	title, desc := parseMetadata(content)
	if title != "Frontmatter Title" {
		t.Errorf("title = %q, want frontmatter value", title)
	}
	if desc != "Frontmatter description" {
		t.Errorf("description = %q, want frontmatter value", desc)
	}
}

func TestParseMetadataPartialFrontmatter(t *testing.T) {
	content := []byte("---\ndescription: Only description\n---\n# Body Title\n")

	title, desc := parseMetadata(content)
	if title != "Body Title" {
		t.Errorf("title = %q, want heading fallback", title)
	}
	if desc != "Only description" {
		t.Errorf("description = %q, want frontmatter value", desc)
	}
}

func TestParseMetadataNoFrontmatter(t *testing.T) {
	content := []byte("# Plain Title\n\n> Plain description\n")

	title, desc := parseMetadata(content)
	if title != "Plain Title" {
		t.Errorf("title = %q, want heading", title)
	}
	if desc != "Plain description" {
		t.Errorf("description = %q, want blockquote", desc)
	}
}
