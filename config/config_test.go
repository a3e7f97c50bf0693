package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "seamesh.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validRectangleConfig = `{
	"poly_region": {"type": "rectangle", "min": {"x": -1, "y": -1}, "max": {"x": 1, "y": 1}},
	"netcdf_bathymetry": "bathy.nc",
	"resolution": {"coarsest": 10000, "finest": 1000, "coastal": 5000},
	"triangulator": "jigsaw",
	"output": {"mesh_file_format": "off"}
}`

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, validRectangleConfig)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.SeaLevel)
	assert.Equal(t, "none", cfg.GradientLimiting.Method)
	assert.Equal(t, 15, cfg.RemeshingIterations)
	assert.Equal(t, "jigsaw", cfg.Triangulator)
	assert.Equal(t, "off", cfg.Output.MeshFileFormat)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidateRejectsUnknownPolyRegionType(t *testing.T) {
	path := writeConfig(t, `{
		"poly_region": {"type": "circle"},
		"netcdf_bathymetry": "bathy.nc",
		"resolution": {"coarsest": 1, "finest": 1, "coastal": 1}
	}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsMissingBathymetry(t *testing.T) {
	path := writeConfig(t, `{
		"poly_region": {"type": "rectangle", "min": {"x": 0, "y": 0}, "max": {"x": 1, "y": 1}},
		"resolution": {"coarsest": 1, "finest": 1, "coastal": 1}
	}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsInvertedAOI(t *testing.T) {
	path := writeConfig(t, `{
		"poly_region": {"type": "rectangle", "min": {"x": 0, "y": 0}, "max": {"x": 1, "y": 1}},
		"netcdf_bathymetry": "bathy.nc",
		"resolution": {"coarsest": 1, "finest": 1, "coastal": 1, "aoi": [{"center_pos": {"x": 0, "y": 0}, "inner_radius": 5, "outer_radius": 2, "element_size": 1}]}
	}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsNonPositiveResolution(t *testing.T) {
	path := writeConfig(t, `{
		"poly_region": {"type": "rectangle", "min": {"x": 0, "y": 0}, "max": {"x": 1, "y": 1}},
		"netcdf_bathymetry": "bathy.nc",
		"resolution": {"coarsest": 0, "finest": 1, "coastal": 1}
	}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadTriangulatorName(t *testing.T) {
	path := writeConfig(t, `{
		"poly_region": {"type": "rectangle", "min": {"x": 0, "y": 0}, "max": {"x": 1, "y": 1}},
		"netcdf_bathymetry": "bathy.nc",
		"resolution": {"coarsest": 1, "finest": 1, "coastal": 1},
		"triangulator": "delaunator"
	}`)
	_, err := Load(path)
	assert.Error(t, err)
}
