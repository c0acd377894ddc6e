package model

import (
	"fmt"
	"strings"
)

// RiskCategory - категория профиля риска клиента.
// Содержит порог баллов и уровни риска продуктов, допустимые для категории.
type RiskCategory struct {
	MinPontuacao  int
	Nome          string
	Descricao     string
	RiscosAceitos []string
}

// Категории отсортированы по убыванию порога: при классификации
// выигрывает наивысший подходящий порог (включительно).
var riskCategories = []RiskCategory{
	{
		MinPontuacao:  71,
		Nome:          "Agressivo",
		Descricao:     "Busca por alta rentabilidade, maior risco.",
		RiscosAceitos: []string{RiscoBaixo, RiscoModerado, RiscoAlto},
	},
	{
		MinPontuacao:  41,
		Nome:          "Moderado",
		Descricao:     "Perfil equilibrado entre segurança e rentabilidade.",
		RiscosAceitos: []string{RiscoBaixo, RiscoModerado},
	},
	{
		MinPontuacao:  0,
		Nome:          "Conservador",
		Descricao:     "Baixa movimentação, foco em liquidez.",
		RiscosAceitos: []string{RiscoBaixo},
	},
}

// RiskCategoryFromScore сопоставляет балл (0-100) с категорией риска
func RiskCategoryFromScore(pontuacao int) RiskCategory {
	for _, categoria := range riskCategories {
		if pontuacao >= categoria.MinPontuacao {
			return categoria
		}
	}
	// Недостижимо: порог Conservador равен нулю
	return riskCategories[len(riskCategories)-1]
}

// RiskCategoryFromName находит категорию по имени без учёта регистра.
// Пробелы по краям игнорируются. Неизвестное имя - ошибка бизнес-правила,
// сообщение содержит исходный ввод и список допустимых значений.
func RiskCategoryFromName(nome string) (RiskCategory, error) {
	busca := strings.TrimSpace(nome)
	for _, categoria := range riskCategories {
		if strings.EqualFold(categoria.Nome, busca) {
			return categoria, nil
		}
	}
	return RiskCategory{}, NewBusinessError(fmt.Sprintf(
		"Perfil de risco inválido: '%s'. Use Conservador, Moderado ou Agressivo.", nome,
	))
}

// RiskProfile - рассчитанный профиль риска клиента (вычисляемое представление,
// не хранится в базе; кэшируется по идентификатору клиента)
type RiskProfile struct {
	ClienteID int64  `json:"cliente_id"`
	Perfil    string `json:"perfil"`
	Pontuacao int    `json:"pontuacao"`
	Descricao string `json:"descricao"`
}
