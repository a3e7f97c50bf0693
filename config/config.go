// Package config implements the Configuration object of spec.md §6: the
// JSON-shaped set of recognised keys that drives one run of the pipeline,
// loaded with spf13/viper the way the teacher's cmd/recast loads its build
// settings.
package config

import (
	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/geom"
	"github.com/spf13/viper"
)

// PolyRegion selects how the region polygon is supplied: either read from a
// poly-format file, or synthesised as an axis-aligned rectangle.
type PolyRegion struct {
	Type string `mapstructure:"type"` // "file" | "rectangle"
	Path string `mapstructure:"path"`
	Min  geom.Point `mapstructure:"min"`
	Max  geom.Point `mapstructure:"max"`
}

// AreaOfInterest mirrors spec.md §6's resolution.aoi entries.
type AreaOfInterest struct {
	CenterPos   geom.Point `mapstructure:"center_pos"`
	InnerRadius float64    `mapstructure:"inner_radius"`
	OuterRadius float64    `mapstructure:"outer_radius"`
	ElementSize float64    `mapstructure:"element_size"`
}

// Resolution mirrors spec.md §6's resolution object.
type Resolution struct {
	Coarsest float64          `mapstructure:"coarsest"`
	Finest   float64          `mapstructure:"finest"`
	Coastal  float64          `mapstructure:"coastal"`
	AOI      []AreaOfInterest `mapstructure:"aoi"`
}

// GradientLimiting mirrors spec.md §6's gradient_limiting object.
type GradientLimiting struct {
	Method string  `mapstructure:"method"` // "none" | "omg" | "marche"
	Limit  float64 `mapstructure:"limit"`
}

// Boundary mirrors spec.md §6's boundary object.
type Boundary struct {
	Height               float64 `mapstructure:"height"`
	IgnoreIslands        bool    `mapstructure:"ignore_islands"`
	AllowSelfIntersection bool   `mapstructure:"allow_self_intersection"`
	MinAngle             float64 `mapstructure:"min_angle"`
}

// Output mirrors spec.md §6's output object.
type Output struct {
	MeshFilePath    string `mapstructure:"mesh_file_path"`
	MeshFileFormat  string `mapstructure:"mesh_file_format"` // "vtk" | "off" | "nod2d"
	SaveBathymetry  bool   `mapstructure:"save_bathymetry"`
	SaveSizeFunction bool  `mapstructure:"save_size_function"`
	SaveBoundary    bool   `mapstructure:"save_boundary"`
}

// Config is spec.md §6's Configuration object in full.
type Config struct {
	PolyRegion          PolyRegion        `mapstructure:"poly_region"`
	NetcdfBathymetry    string            `mapstructure:"netcdf_bathymetry"`
	SeaLevel            float64           `mapstructure:"sea_level"`
	Resolution          Resolution        `mapstructure:"resolution"`
	GradientLimiting    GradientLimiting  `mapstructure:"gradient_limiting"`
	Boundary            Boundary          `mapstructure:"boundary"`
	Triangulator        string            `mapstructure:"triangulator"` // "triangle" | "jigsaw"
	RemeshingIterations int               `mapstructure:"remeshing_iterations"`
	Output              Output            `mapstructure:"output"`
}

// defaults populates every field spec.md §6 marks optional.
func defaults(v *viper.Viper) {
	v.SetDefault("sea_level", 0.0)
	v.SetDefault("gradient_limiting.method", "none")
	v.SetDefault("boundary.ignore_islands", false)
	v.SetDefault("boundary.allow_self_intersection", false)
	v.SetDefault("boundary.min_angle", 0.0)
	v.SetDefault("triangulator", "triangle")
	v.SetDefault("remeshing_iterations", 15)
	v.SetDefault("output.mesh_file_format", "vtk")
}

// Load reads, parses, and validates the configuration file at path, in any
// format viper supports by extension (JSON, YAML, TOML).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	defaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errs.Wrap(errs.IoError, "config.Load", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrap(errs.InvalidConfig, "config.Load", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural constraints spec.md §6/§7 require before
// the pipeline touches the configuration: the region source is recognised,
// the bathymetry path is present, and the triangulator/output format names
// are one of the enumerated values.
func (c *Config) Validate() error {
	switch c.PolyRegion.Type {
	case "file":
		if c.PolyRegion.Path == "" {
			return errs.New(errs.InvalidConfig, "config.Validate", "poly_region.path is required when type is \"file\"")
		}
	case "rectangle":
		if !(c.PolyRegion.Min.X < c.PolyRegion.Max.X && c.PolyRegion.Min.Y < c.PolyRegion.Max.Y) {
			return errs.New(errs.InvalidConfig, "config.Validate", "poly_region.min must be strictly less than poly_region.max")
		}
	default:
		return errs.New(errs.InvalidConfig, "config.Validate", "poly_region.type must be \"file\" or \"rectangle\"")
	}

	if c.NetcdfBathymetry == "" {
		return errs.New(errs.InvalidConfig, "config.Validate", "netcdf_bathymetry is required")
	}

	if c.Resolution.Coarsest <= 0 || c.Resolution.Finest <= 0 || c.Resolution.Coastal <= 0 {
		return errs.New(errs.InvalidConfig, "config.Validate", "resolution.coarsest/finest/coastal must be positive")
	}
	for _, aoi := range c.Resolution.AOI {
		if aoi.InnerRadius >= aoi.OuterRadius {
			return errs.New(errs.InvalidConfig, "config.Validate", "resolution.aoi.inner_radius must be less than outer_radius")
		}
	}

	switch c.GradientLimiting.Method {
	case "none", "omg", "marche":
	default:
		return errs.New(errs.InvalidConfig, "config.Validate", "gradient_limiting.method must be \"none\", \"omg\" or \"marche\"")
	}

	switch c.Triangulator {
	case "triangle", "jigsaw":
	default:
		return errs.New(errs.InvalidConfig, "config.Validate", "triangulator must be \"triangle\" or \"jigsaw\"")
	}

	switch c.Output.MeshFileFormat {
	case "vtk", "off", "nod2d":
	default:
		return errs.New(errs.InvalidConfig, "config.Validate", "output.mesh_file_format must be \"vtk\", \"off\" or \"nod2d\"")
	}

	if c.RemeshingIterations < 0 {
		return errs.New(errs.InvalidConfig, "config.Validate", "remeshing_iterations must be non-negative")
	}

	return nil
}
