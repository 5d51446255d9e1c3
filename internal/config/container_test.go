package config

import (
	"os"
	"path/filepath"
	"testing"

	"manifesto-reader/internal/infra/supabase"
	"manifesto-reader/internal/repository"
	"manifesto-reader/internal/service"
	"manifesto-reader/pkg/logger"
)

func TestNewContainer_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := NewContainer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.PositionRepository.(*repository.MemoryPositionRepository); !ok {
		t.Fatalf("expected in-memory positions without Supabase, got %T", c.PositionRepository)
	}
	if c.Catalog.Len() != 12 {
		t.Fatalf("expected default catalog, got %d sections", c.Catalog.Len())
	}
	if c.DocumentService == nil || c.SessionService == nil {
		t.Fatalf("expected services to be wired")
	}
	if _, err := c.DocumentService.Index(); err == nil {
		t.Fatalf("document must not be loaded by the container")
	}
}

func TestNewContainer_SectionsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sections.json")
	data := `[{"id":"a","title":"A","short_label":"A","start_page":1},{"id":"b","title":"B","short_label":"B","start_page":40}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write sections: %v", err)
	}
	t.Setenv("SECTIONS_FILE", path)

	c, err := NewContainer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Catalog.Len() != 2 {
		t.Fatalf("expected 2 sections, got %d", c.Catalog.Len())
	}

	t.Setenv("SECTIONS_FILE", filepath.Join(t.TempDir(), "missing.json"))
	if _, err := NewContainer(); err == nil {
		t.Fatalf("expected error for missing sections file")
	}
}

func TestNewPDFSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("PDF_STORAGE_OBJECT", "documents/manifesto.pdf")

	cfg := NewConfig()
	if _, ok := newPDFSource(cfg, supabase.NewClient(cfg, logger.NewLogger("error"))).(*service.FileSource); !ok {
		t.Fatalf("expected file source without Supabase credentials")
	}

	t.Setenv("SUPABASE_URL", "http://localhost:54321")
	t.Setenv("SUPABASE_ANON_KEY", "test-key")
	cfg = NewConfig()
	src := newPDFSource(cfg, supabase.NewClient(cfg, logger.NewLogger("error")))
	if _, ok := src.(*service.SupabaseStorage); !ok {
		t.Fatalf("expected storage source, got %T", src)
	}
	if src.Location() != "storage:documents/manifesto.pdf" {
		t.Fatalf("unexpected location %s", src.Location())
	}
}
