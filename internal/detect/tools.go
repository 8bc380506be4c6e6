package detect

import (
	"path/filepath"
	"strconv"

	"devsweep/internal/config"
)

// Tools builds the fixed detector set in stable scan order. Each detector's
// well-known paths can be overridden per tool via config; detectors a user
// disabled are left out entirely.
func Tools(cfg *config.Config, home string) []Detector {
	join := func(elem ...string) string { return filepath.Join(elem...) }

	all := []Detector{
		&pathDetector{name: "npm", specs: []pathSpec{
			{
				Kind: "cache", Path: join(home, ".npm"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "npm package cache; repopulated on demand by npm install",
			},
		}},
		&pathDetector{name: "yarn", specs: []pathSpec{
			{
				Kind: "cache", Path: join(home, ".cache", "yarn"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "yarn package cache; repopulated on demand",
			},
			{
				Kind: "cache-darwin", Path: join(home, "Library", "Caches", "Yarn"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "yarn package cache; repopulated on demand",
			},
		}},
		&pathDetector{name: "pnpm", specs: []pathSpec{
			{
				Kind: "store", Path: join(home, ".local", "share", "pnpm", "store"),
				Safe: true, Risk: RiskSlowRebuild, RebuildCost: "minutes to hours",
				Explanation: "pnpm content-addressable store; shared by every pnpm project",
			},
			{
				Kind: "store-legacy", Path: join(home, ".pnpm-store"),
				Safe: true, Risk: RiskSlowRebuild, RebuildCost: "minutes to hours",
				Explanation: "pnpm content-addressable store (legacy location)",
			},
		}},
		&pathDetector{name: "pip", specs: []pathSpec{
			{
				Kind: "cache", Path: join(home, ".cache", "pip"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "pip wheel and HTTP cache; re-downloaded on demand",
			},
			{
				Kind: "cache-darwin", Path: join(home, "Library", "Caches", "pip"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "pip wheel and HTTP cache; re-downloaded on demand",
			},
		}},
		&pathDetector{name: "go", specs: []pathSpec{
			{
				Kind: "build-cache", Path: join(home, ".cache", "go-build"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "go build cache; rebuilt incrementally by the toolchain",
			},
			{
				Kind: "build-cache-darwin", Path: join(home, "Library", "Caches", "go-build"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "go build cache; rebuilt incrementally by the toolchain",
			},
			{
				Kind: "module-cache", Path: join(home, "go", "pkg", "mod"),
				Safe: true, Risk: RiskSlowRebuild, RebuildCost: "minutes to hours",
				Explanation: "go module cache; every dependency is re-downloaded on next build",
			},
		}},
		&pathDetector{name: "cargo", specs: []pathSpec{
			{
				Kind: "registry-cache", Path: join(home, ".cargo", "registry", "cache"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "cargo crate archives; re-downloaded on demand",
			},
			{
				Kind: "registry-src", Path: join(home, ".cargo", "registry", "src"),
				Safe: true, Risk: RiskSlowRebuild, RebuildCost: "minutes to hours",
				Explanation: "unpacked crate sources; re-extracted, then everything recompiles",
			},
			{
				Kind: "git-checkouts", Path: join(home, ".cargo", "git"),
				Safe: true, Risk: RiskSlowRebuild, RebuildCost: "minutes to hours",
				Explanation: "cargo git dependency checkouts; re-cloned on demand",
			},
		}},
		&pathDetector{name: "gradle", specs: []pathSpec{
			{
				Kind: "caches", Path: join(home, ".gradle", "caches"),
				Safe: true, Risk: RiskSlowRebuild, RebuildCost: "tens of minutes",
				Explanation: "gradle dependency and build caches; first build after deletion is cold",
			},
		}},
		&pathDetector{name: "maven", specs: []pathSpec{
			{
				Kind: "repository", Path: join(home, ".m2", "repository"),
				Safe: true, Risk: RiskSlowRebuild, RebuildCost: "tens of minutes",
				Explanation: "maven local repository; every dependency is re-resolved",
			},
		}},
		&pathDetector{name: "docker", specs: []pathSpec{
			{
				Kind: "data-root", Path: "/var/lib/docker",
				Safe: false, Risk: RiskUnsafe, RebuildCost: "unbounded",
				Explanation: "docker daemon data root; deleting it destroys images, containers and volumes; use docker system prune instead",
			},
			{
				Kind: "desktop-data", Path: join(home, "Library", "Containers", "com.docker.docker"),
				Safe: false, Risk: RiskUnsafe, RebuildCost: "unbounded",
				Explanation: "Docker Desktop VM data; managed by the application, never deleted here",
			},
		}},
		&pathDetector{name: "homebrew", specs: []pathSpec{
			{
				Kind: "cache", Path: join(home, "Library", "Caches", "Homebrew"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "homebrew download cache; re-fetched on demand",
			},
			{
				Kind: "cache-linux", Path: join(home, ".cache", "Homebrew"),
				Safe: true, Risk: RiskSafe, RebuildCost: "minutes",
				Explanation: "homebrew download cache; re-fetched on demand",
			},
		}},
	}

	detectors := make([]Detector, 0, len(all))
	for _, d := range all {
		if cfg != nil && !cfg.ToolEnabled(d.Name()) {
			continue
		}
		if cfg != nil {
			applyOverrides(cfg, d)
		}
		detectors = append(detectors, d)
	}
	return detectors
}

// applyOverrides narrows a detector's path set to the configured locations,
// keeping the first spec's risk metadata as the template for each override.
func applyOverrides(cfg *config.Config, d Detector) {
	pd, ok := d.(*pathDetector)
	if !ok || len(pd.specs) == 0 {
		return
	}
	override, ok := cfg.ToolPaths[pd.name]
	if !ok || len(override) == 0 {
		return
	}
	template := pd.specs[0]
	specs := make([]pathSpec, 0, len(override))
	for i, path := range override {
		spec := template
		spec.Path = path
		if i > 0 {
			spec.Kind = template.Kind + "-" + strconv.Itoa(i+1)
		}
		specs = append(specs, spec)
	}
	pd.specs = specs
}
