package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Robsonrmaia/conectaios-sub003/models"
)

// badgeCatalogue is seeded into badge_definitions at boot.
var badgeCatalogue = []models.BadgeDefinition{
	{Slug: BadgeChampion, Label: "Campeão do Mês", Description: "Maior pontuação do mês", Icon: "trophy", Priority: 1},
	{Slug: "elite", Label: "Elite", Description: "Fechou o mês no nível Elite", Icon: "crown", Priority: 2},
	{Slug: "premium", Label: "Premium", Description: "Fechou o mês no nível Premium", Icon: "star", Priority: 3},
	{Slug: "participativo", Label: "Participativo", Description: "Fechou o mês no nível Participativo", Icon: "medal", Priority: 4},
}

// SeedCatalogues upserts the rule and badge catalogues. Safe to run on every
// boot: existing rows are refreshed, manual rows are left alone.
func SeedCatalogues(db *gorm.DB) error {
	for _, rule := range ruleCatalogue {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"label", "points", "description", "active"}),
		}).Create(&rule).Error; err != nil {
			return storeErr("seed rule catalogue", err)
		}
	}
	for _, badge := range badgeCatalogue {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"label", "description", "icon", "priority"}),
		}).Create(&badge).Error; err != nil {
			return storeErr("seed badge catalogue", err)
		}
	}
	return nil
}
