package similarity

import "github.com/OFFIS-RIT/compass/internal/util"

// EngineFromEnv builds an engine from the default weights and the threshold
// overrides of the environment.
func EngineFromEnv() (*Engine, error) {
	cfg := DefaultConfig()
	cfg.EqualityThreshold = util.GetEnvFloat("SIMILARITY_EQUALITY_THRESHOLD", cfg.EqualityThreshold)
	cfg.PartialCredit = util.GetEnvFloat("SIMILARITY_PARTIAL_CREDIT", cfg.PartialCredit)
	return NewEngine(cfg)
}
