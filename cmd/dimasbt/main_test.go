package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dimasbt/internal/behavior"
	"dimasbt/internal/config"
	"dimasbt/internal/xmlfactory"
)

func TestRegistryCarriesBuiltinsLeavesAndExtendedSet(t *testing.T) {
	r, err := newRegistry(config.Default())
	require.NoError(t, err)

	for _, id := range []string{"Sequence", "Fallback", "Parallel", "ReactiveSequence", "Repeat", "Script", "SetBlackboard"} {
		_, _, ok := r.Lookup(id)
		assert.True(t, ok, "expected %s to be registered", id)
	}
}

func TestRegistryHonorsExtendedToggle(t *testing.T) {
	cfg := config.Default()
	cfg.Factory.ExtendedRegistrations = false
	r, err := newRegistry(cfg)
	require.NoError(t, err)

	_, _, ok := r.Lookup("Sequence")
	assert.True(t, ok)
	_, _, ok = r.Lookup("ReactiveSequence")
	assert.False(t, ok)
}

func TestExampleTreeBuilds(t *testing.T) {
	r, err := newRegistry(config.Default())
	require.NoError(t, err)

	bt, err := buildFromFile(xmlfactory.New(r), "../../examples/patrol.xml")
	require.NoError(t, err)

	status, err := bt.TickOnce()
	require.NoError(t, err)
	assert.Equal(t, behavior.Success, status)
}

func TestManifestMarkdownListsPorts(t *testing.T) {
	r, err := newRegistry(config.Default())
	require.NoError(t, err)

	m, _, ok := r.Lookup("SetBlackboard")
	require.True(t, ok)

	md := manifestMarkdown(m)
	assert.Contains(t, md, "# SetBlackboard")
	assert.Contains(t, md, "`value`")
	assert.Contains(t, md, "`output_key`")
}
