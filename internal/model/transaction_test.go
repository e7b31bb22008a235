package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junhaoh/cashcount/internal/catalog"
)

func TestTransaction_CrossBorder(t *testing.T) {
	hkCard := &Card{IssueRegion: catalog.RegionHK}

	local := &Transaction{Region: catalog.RegionHK}
	foreign := &Transaction{Region: catalog.RegionUS}

	assert.False(t, local.CrossBorder(hkCard))
	assert.True(t, foreign.CrossBorder(hkCard))
	assert.False(t, foreign.CrossBorder(nil), "a card-less transaction is never cross-border")
}
