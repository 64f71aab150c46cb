package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/folio/internal/application/usecase"
	"github.com/bnema/folio/internal/domain/entity"
)

func navLink(page *fakePage, id string) *fakeElement {
	for _, el := range page.elements {
		if el.attrs["href"] == "#"+id {
			return el
		}
	}
	return nil
}

func TestScrollWatcher_RevealIsOneWay(t *testing.T) {
	ctx := testContext()
	page := newPortfolioPage()
	w := usecase.NewScrollWatcher(page, usecase.DefaultScrollOptions())

	w.HandleIntersections(ctx, []entity.IntersectionEntry{
		{TargetID: "about", Ratio: 0.2, Intersecting: true},
		{TargetID: "projects", Ratio: 0.05, Intersecting: true},
	})
	assert.True(t, page.el("about").HasClass("visible"))
	assert.False(t, page.el("projects").HasClass("visible"))

	w.HandleIntersections(ctx, []entity.IntersectionEntry{
		{TargetID: "about", Ratio: 0, Intersecting: false},
	})
	assert.True(t, page.el("about").HasClass("visible"), "sections never un-reveal")
	assert.True(t, w.Revealed("about"))
}

func TestScrollWatcher_MostVisibleSectionDrivesNavigation(t *testing.T) {
	ctx := testContext()
	page := newPortfolioPage()
	w := usecase.NewScrollWatcher(page, usecase.DefaultScrollOptions())

	w.HandleIntersections(ctx, []entity.IntersectionEntry{
		{TargetID: "about", Ratio: 0.55, Intersecting: true},
		{TargetID: "projects", Ratio: 0.8, Intersecting: true},
		{TargetID: "contact", Ratio: 0.3, Intersecting: true},
	})

	assert.Equal(t, "projects", w.Active())
	assert.Equal(t, "0.5", navLink(page, "projects").Style("opacity"))
	assert.Equal(t, "none", navLink(page, "projects").Style("pointer-events"))
	assert.Equal(t, "1", navLink(page, "about").Style("opacity"))
	assert.Equal(t, "auto", navLink(page, "contact").Style("pointer-events"))

	w.HandleIntersections(ctx, []entity.IntersectionEntry{
		{TargetID: "contact", Ratio: 0.6, Intersecting: true},
	})
	assert.Equal(t, "contact", w.Active())
	assert.Equal(t, "1", navLink(page, "projects").Style("opacity"))
	assert.Equal(t, "0.5", navLink(page, "contact").Style("opacity"))
}

func TestScrollWatcher_BelowThresholdKeepsActive(t *testing.T) {
	ctx := testContext()
	page := newPortfolioPage()
	w := usecase.NewScrollWatcher(page, usecase.DefaultScrollOptions())

	w.HandleIntersections(ctx, []entity.IntersectionEntry{{TargetID: "about", Ratio: 1, Intersecting: true}})
	w.HandleIntersections(ctx, []entity.IntersectionEntry{{TargetID: "projects", Ratio: 0.4, Intersecting: true}})

	assert.Equal(t, "about", w.Active())
}

func TestScrollWatcher_UnknownTargetsAreIgnored(t *testing.T) {
	ctx := testContext()
	page := newPortfolioPage()
	w := usecase.NewScrollWatcher(page, usecase.ScrollOptions{})

	assert.NotPanics(t, func() {
		w.HandleIntersections(ctx, []entity.IntersectionEntry{{TargetID: "ghost", Ratio: 1, Intersecting: true}})
	})
	assert.Empty(t, w.Active())
	assert.False(t, w.Revealed("ghost"))

	empty := usecase.NewScrollWatcher(nil, usecase.DefaultScrollOptions())
	assert.NotPanics(t, func() {
		empty.HandleIntersections(ctx, []entity.IntersectionEntry{{TargetID: "about", Ratio: 1, Intersecting: true}})
	})
}
