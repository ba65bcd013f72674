package document_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	model "github.com/ritankar/legalaid/internal/model/document"
	"github.com/ritankar/legalaid/internal/service/document"
)

type fakeSource struct {
	mu        sync.Mutex
	calls     int
	templates []model.Template
	err       error
}

func (f *fakeSource) Templates(context.Context) ([]model.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.templates, f.err
}

func TestCatalogLoadReplaces(t *testing.T) {
	source := &fakeSource{templates: []model.Template{{ID: "rent-agreement", Title: "Rental Agreement"}}}
	catalog := document.NewCatalog(source, zap.NewNop())

	catalog.Load(context.Background())

	templates := catalog.Templates()
	if len(templates) != 1 || templates[0].ID != "rent-agreement" {
		t.Fatalf("unexpected catalog: %+v", templates)
	}

	source.mu.Lock()
	source.templates = nil
	source.mu.Unlock()
	catalog.Load(context.Background())

	if len(catalog.Templates()) != 0 {
		t.Error("empty fetch did not replace the catalog")
	}
}

func TestCatalogLoadFailureKeepsPrior(t *testing.T) {
	source := &fakeSource{templates: []model.Template{{ID: "affidavit", Title: "Affidavit"}}}
	catalog := document.NewCatalog(source, zap.NewNop())
	catalog.Load(context.Background())

	source.mu.Lock()
	source.err = errors.New("backend down")
	source.mu.Unlock()
	catalog.Load(context.Background())

	templates := catalog.Templates()
	if len(templates) != 1 || templates[0].ID != "affidavit" {
		t.Errorf("failed load disturbed the catalog: %+v", templates)
	}
}

func TestCatalogEmptyIsValid(t *testing.T) {
	source := &fakeSource{}
	catalog := document.NewCatalog(source, zap.NewNop())
	catalog.Load(context.Background())

	if len(catalog.Templates()) != 0 {
		t.Error("expected empty catalog")
	}
}

func TestCatalogFind(t *testing.T) {
	source := &fakeSource{templates: []model.Template{
		{ID: "rent-agreement", Title: "Rental Agreement"},
		{ID: "affidavit", Title: "Affidavit"},
	}}
	catalog := document.NewCatalog(source, zap.NewNop())
	catalog.Load(context.Background())

	if got, ok := catalog.Find("affidavit"); !ok || got.Title != "Affidavit" {
		t.Errorf("Find(affidavit) = %+v, %v", got, ok)
	}
	if _, ok := catalog.Find("missing"); ok {
		t.Error("Find(missing) reported success")
	}
}
