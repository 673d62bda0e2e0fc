package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/internal/model"
)

func TestScalarFieldGetSet(t *testing.T) {
	raw := model.MinimalInfoRaw("widget", "1.0.0")

	require.NoError(t, setScalarField(&raw, "description", "a widget"))
	v, err := scalarField(&raw, "description")
	require.NoError(t, err)
	assert.Equal(t, "a widget", v)

	require.NoError(t, setScalarField(&raw, "VERSION", "2.0.0"))
	v, err = scalarField(&raw, "version")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", v)
}

func TestScalarFieldUnknown(t *testing.T) {
	raw := model.MinimalInfoRaw("widget", "1.0.0")
	_, err := scalarField(&raw, "bogus")
	assert.Error(t, err)
	assert.Error(t, setScalarField(&raw, "bogus", "x"))
}

func TestAddRemoveUsageRoundTrip(t *testing.T) {
	raw := model.MinimalInfoRaw("widget", "1.0.0")
	raw.AddUsage("urn:kpar:systems-library", "^1.0.0")
	require.Len(t, raw.Usage, 1)

	removed := raw.RemoveUsage("urn:kpar:systems-library")
	require.Len(t, removed, 1)
	assert.Empty(t, raw.Usage)
}
