package plugin

// ConfigSource supplies the aggregated agent configs and catalog. Call sites
// pick an implementation once at process start instead of branching on a
// "dynamic plugins" flag at every lookup.
type ConfigSource interface {
	Configs() []AgentConfig
	Catalog() []CatalogEntry
}

// StaticConfigSource serves fixed slices. Useful for tests and for embedders
// that assemble their own lists.
type StaticConfigSource struct {
	AgentConfigs   []AgentConfig
	CatalogEntries []CatalogEntry
}

// Configs implements ConfigSource.
func (s *StaticConfigSource) Configs() []AgentConfig { return s.AgentConfigs }

// Catalog implements ConfigSource.
func (s *StaticConfigSource) Catalog() []CatalogEntry { return s.CatalogEntries }

// LoaderConfigSource serves from a Loader, loading lazily on first use.
type LoaderConfigSource struct {
	Loader *Loader
}

// Configs implements ConfigSource.
func (s *LoaderConfigSource) Configs() []AgentConfig {
	s.Loader.LoadAll()
	return s.Loader.GetAllConfigs()
}

// Catalog implements ConfigSource.
func (s *LoaderConfigSource) Catalog() []CatalogEntry {
	s.Loader.LoadAll()
	return s.Loader.GetAllCatalog()
}
