package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Dataset.DatabasePath == "" {
		cfg.Dataset.DatabasePath = "/usr/local/var/blueprint/data/sequences.db"
	}
	if cfg.Search.DefaultPageLimit == 0 {
		cfg.Search.DefaultPageLimit = 25
	}
	if cfg.Search.HistoryCap == 0 {
		cfg.Search.HistoryCap = 10
	}
	if cfg.Search.HighConfidenceThreshold == 0 {
		cfg.Search.HighConfidenceThreshold = 0.9
	}
	if cfg.Search.SimulatedLatencyMs == 0 {
		cfg.Search.SimulatedLatencyMs = 300
	}
	if cfg.Search.MaxSuggestions == 0 {
		cfg.Search.MaxSuggestions = 5
	}
}
