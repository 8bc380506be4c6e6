package config

// GetDefault returns the configuration used when no config file exists.
func GetDefault() *Config {
	return &Config{
		ExcludeHidden:  true,
		DryRun:         false,
		Verbose:        false,
		ProtectedPaths: nil,
		ToolPaths:      map[string][]string{},
		DisabledTools:  nil,
	}
}
