package exclusivity

import (
	"testing"

	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deal(id, clause string) *models.BrandDeal {
	d := &models.BrandDeal{BrandName: "brand-" + id, ExclusivityClause: clause}
	d.ID = id
	return d
}

func TestKeywords(t *testing.T) {
	got := Keywords("No other BATTERY brands, no battery-adjacent promos (90 days)!")
	assert.Equal(t, []string{"other", "battery", "brands", "adjacent", "promos"}, got)
}

func TestKeywords_DropsShortWords(t *testing.T) {
	assert.Empty(t, Keywords("no ad for a day"))
}

func TestFindConflicts_SharedKeywords(t *testing.T) {
	candidate := deal("d2", "exclusive battery and charging accessories")
	existing := []*models.BrandDeal{
		deal("d1", "no competing battery brands"),
		deal("d3", "skincare products only"),
	}

	warnings := FindConflicts(candidate, existing)
	require.Len(t, warnings, 1)
	assert.Equal(t, "d2", warnings[0].DealID)
	assert.Equal(t, "d1", warnings[0].OtherDealID)
	assert.Equal(t, []string{"battery"}, warnings[0].SharedKeywords)
}

func TestFindConflicts_EmptyClauseNeverConflicts(t *testing.T) {
	assert.Nil(t, FindConflicts(deal("d1", ""), []*models.BrandDeal{
		deal("d2", "battery brands"),
	}))
	assert.Nil(t, FindConflicts(deal("d1", "battery brands"), []*models.BrandDeal{
		deal("d2", ""),
	}))
}

func TestFindConflicts_IgnoresSelf(t *testing.T) {
	d := deal("d1", "battery brands")
	assert.Nil(t, FindConflicts(d, []*models.BrandDeal{d}))
}

func TestFindConflicts_SortedKeywords(t *testing.T) {
	warnings := FindConflicts(
		deal("d2", "video gear and camera accessories"),
		[]*models.BrandDeal{deal("d1", "camera bodies, video lights")},
	)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"camera", "video"}, warnings[0].SharedKeywords)
}
