package types

// ProviderConfig holds the settings used to construct a provider instance.
type ProviderConfig struct {
	Type ProviderType `yaml:"type"`
	Name string       `yaml:"name"`

	// DSN is the data source name for relational providers. Ignored by the memory provider.
	DSN string `yaml:"dsn,omitempty"`
}
