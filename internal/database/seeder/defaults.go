package seeder

import (
	"log"

	"competency-matrix/internal/config"
)

func Defaults(sync SyncRunner, cfg config.CompetencyConfig, logger *log.Logger) []Seeder {
	return []Seeder{
		NewCompetencySeeder(sync, cfg, logger),
	}
}
