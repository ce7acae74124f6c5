package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtcgo/tokenpipe/internal/diag"
)

func TestSuggest_ClosestTypo(t *testing.T) {
	candidates := []string{"color.brand.primary", "color.brand.secondary", "size.spacing.small"}
	got := diag.Suggest("color.brnad.primary", candidates, 3)
	assert.Equal(t, []string{"color.brand.primary"}, got)
}

func TestSuggest_NoCloseMatch(t *testing.T) {
	candidates := []string{"size.spacing.small", "size.spacing.large"}
	got := diag.Suggest("color.brand.primary", candidates, 3)
	assert.Empty(t, got)
}

func TestSuggest_LimitsResults(t *testing.T) {
	candidates := []string{"color.a", "color.b", "color.c", "color.d"}
	got := diag.Suggest("color.x", candidates, 2)
	assert.Len(t, got, 2)
}
