package services

import "github.com/Robsonrmaia/conectaios-sub003/models"

// RuleKey identifies a point-awarding condition. The set is closed: every key
// the engine can emit is declared here and mapped in the catalogue below, so a
// typo fails at the catalogue lookup instead of silently minting a new rule.
type RuleKey string

const (
	RuleQuality90    RuleKey = "anuncio_qualidade_90"
	RuleEightPhotos  RuleKey = "anuncio_8_fotos"
	RuleSoldOrRented RuleKey = "anuncio_vendido_alugado"
	RuleMatch1h      RuleKey = "match_1h"
	RuleMatch12h     RuleKey = "match_12h"
	RuleMatch24h     RuleKey = "match_24h"
	RuleSocialShare  RuleKey = "compartilhamento_social"
	RuleSocialLike   RuleKey = "interacao_social"
)

// ruleCatalogue drives the mapping from a logical action to a point value.
// Seeded into rule_definitions at boot for UI consumption.
var ruleCatalogue = []models.RuleDefinition{
	{Key: string(RuleQuality90), Label: "Anúncio com qualidade 90%+", Points: 15, Description: "Anúncio atingiu 90% ou mais de qualidade", Active: true},
	{Key: string(RuleEightPhotos), Label: "Anúncio com 8+ fotos", Points: 5, Description: "Anúncio publicado com pelo menos 8 fotos", Active: true},
	{Key: string(RuleSoldOrRented), Label: "Anúncio vendido/alugado", Points: 25, Description: "Imóvel marcado como vendido ou alugado", Active: true},
	{Key: string(RuleMatch1h), Label: "Match respondido em 1h", Points: 10, Description: "Resposta ao match em até 1 hora", Active: true},
	{Key: string(RuleMatch12h), Label: "Match respondido em 12h", Points: 5, Description: "Resposta ao match em até 12 horas", Active: true},
	{Key: string(RuleMatch24h), Label: "Match respondido em 24h", Points: 2, Description: "Resposta ao match em até 24 horas", Active: true},
	{Key: string(RuleSocialShare), Label: "Compartilhamento social", Points: 3, Description: "Compartilhamento de anúncio nas redes", Active: true},
	{Key: string(RuleSocialLike), Label: "Interação social", Points: 1, Description: "Curtida ou comentário em anúncio", Active: true},
}

// rulePoints returns the fixed point value for a catalogued rule.
func rulePoints(key RuleKey) int {
	for _, r := range ruleCatalogue {
		if r.Key == string(key) {
			return r.Points
		}
	}
	return 0
}

// socialRuleKeys are the rule keys counted against the daily social cap.
var socialRuleKeys = []string{string(RuleSocialShare), string(RuleSocialLike)}
