package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/triage/data/db/evidence.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/triage/data/indices/bleve"
	}
	if cfg.Analysis.SimilarityThreshold == 0 {
		cfg.Analysis.SimilarityThreshold = 0.1
	}
	if cfg.Analysis.TopCentralNodes == 0 {
		cfg.Analysis.TopCentralNodes = 5
	}
}
