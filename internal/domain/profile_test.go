package domain_test

import (
	"testing"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewProfile_DedupesAndSorts(t *testing.T) {
	p := domain.NewProfile("/p", domain.TagVite, domain.TagNode, domain.TagVite)
	assert.Equal(t, []domain.Tag{domain.TagVite, domain.TagFrontend, domain.TagNode}, p.Tags)
}

func TestNewProfile_DerivesFrontendAndBackend(t *testing.T) {
	p := domain.NewProfile("/p", domain.TagAngular, domain.TagExpress)
	assert.True(t, p.Has(domain.TagFrontend))
	assert.True(t, p.Has(domain.TagBackend))

	py := domain.NewProfile("/p", domain.TagPython)
	assert.True(t, py.Has(domain.TagBackend))
	assert.False(t, py.Has(domain.TagFrontend))
}

func TestNewProfile_Empty(t *testing.T) {
	p := domain.NewProfile("/p")
	assert.True(t, p.IsEmpty())
	assert.False(t, p.HasAny(domain.TagNode, domain.TagPython))
}

func TestProfile_Union(t *testing.T) {
	a := domain.NewProfile("/root", domain.TagNode)
	b := domain.NewProfile("/root/web", domain.TagVite)
	u := a.Union(b)

	assert.Equal(t, "/root", u.Root)
	assert.True(t, u.Has(domain.TagNode))
	assert.True(t, u.Has(domain.TagVite))
	assert.True(t, u.Has(domain.TagFrontend))
}
