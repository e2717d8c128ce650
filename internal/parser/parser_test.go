package parser

import (
	"testing"

	"github.com/halvard/munin/internal/models"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte(`---
title: Puppet runbook
created: 2025-01-10
modified: 2025-01-15
tags:
  - work/puppet
  - ops
type: project
status: active
category: work
---
# Puppet runbook
Body text.
`)
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Puppet runbook" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Body != "# Puppet runbook\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
	if r.Meta.Created != "2025-01-10" || r.Meta.Modified != "2025-01-15" {
		t.Errorf("dates = %q / %q", r.Meta.Created, r.Meta.Modified)
	}
	if len(r.Meta.Tags) != 2 || r.Meta.Tags[0] != "work/puppet" || r.Meta.Tags[1] != "ops" {
		t.Errorf("tags = %v", r.Meta.Tags)
	}
	if r.Meta.Type != models.TypeProject || r.Meta.Status != models.StatusActive || r.Meta.Category != models.CategoryWork {
		t.Errorf("enums = %q/%q/%q", r.Meta.Type, r.Meta.Status, r.Meta.Category)
	}
}

func TestParse_NoFrontmatterAppliesDefaults(t *testing.T) {
	r, err := Parse([]byte("Just some text.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Meta.Type != models.DefaultType {
		t.Errorf("type = %q, want %q", r.Meta.Type, models.DefaultType)
	}
	if r.Meta.Status != models.DefaultStatus {
		t.Errorf("status = %q, want %q", r.Meta.Status, models.DefaultStatus)
	}
	if r.Meta.Category != models.DefaultCategory {
		t.Errorf("category = %q, want %q", r.Meta.Category, models.DefaultCategory)
	}
	if r.Meta.Tags == nil || len(r.Meta.Tags) != 0 {
		t.Errorf("tags = %v, want empty", r.Meta.Tags)
	}
}

func TestParse_InvalidEnumsFallBack(t *testing.T) {
	input := []byte("---\ntype: bogus\nstatus: wat\ncategory: nope\n---\nBody\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Meta.Type != models.DefaultType || r.Meta.Status != models.DefaultStatus || r.Meta.Category != models.DefaultCategory {
		t.Errorf("enums = %q/%q/%q, want defaults", r.Meta.Type, r.Meta.Status, r.Meta.Category)
	}
}

func TestParse_InvalidYAMLFallsBackToBody(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Meta.Type != models.DefaultType {
		t.Errorf("type = %q, want default", r.Meta.Type)
	}
	if r.Body != string(input) {
		t.Errorf("body should be the whole input, got %q", r.Body)
	}
}

func TestParse_UnquotedYAMLDate(t *testing.T) {
	// yaml.v3 resolves unquoted dates to time.Time; they must come back as
	// plain date strings.
	r, err := Parse([]byte("---\nmodified: 2025-01-15\n---\nx\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Meta.Modified != "2025-01-15" {
		t.Errorf("modified = %q, want 2025-01-15", r.Meta.Modified)
	}
}

func TestParse_ExtraKeysPreserved(t *testing.T) {
	input := []byte("---\ntitle: T\nproject_id: 42\nreviewer: alice\n---\nx\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Meta.Extra) != 2 {
		t.Fatalf("extra = %v, want 2 keys", r.Meta.Extra)
	}
	if r.Meta.Extra["reviewer"] != "alice" {
		t.Errorf("reviewer = %v", r.Meta.Extra["reviewer"])
	}
	if _, ok := r.Meta.Extra["title"]; ok {
		t.Error("recognized keys must not leak into extra")
	}
}

func TestParse_TagsDedupedAndOrdered(t *testing.T) {
	input := []byte("---\ntags:\n  - work\n  - ops\n  - work\n  - \"  \"\n---\nx\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Meta.Tags) != 2 || r.Meta.Tags[0] != "work" || r.Meta.Tags[1] != "ops" {
		t.Errorf("tags = %v, want [work ops]", r.Meta.Tags)
	}
}

func TestParse_ScalarTag(t *testing.T) {
	r, err := Parse([]byte("---\ntags: work\n---\nx\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Meta.Tags) != 1 || r.Meta.Tags[0] != "work" {
		t.Errorf("tags = %v, want [work]", r.Meta.Tags)
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	r, err := Parse([]byte("some text\n# My Heading\nmore\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "My Heading" {
		t.Errorf("title = %q, want %q", r.Title, "My Heading")
	}
}
