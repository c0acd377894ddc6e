package model

import "github.com/shopspring/decimal"

// Уровни риска продукта
const (
	RiscoBaixo    = "Baixo"
	RiscoModerado = "Moderado"
	RiscoAlto     = "Alto"
)

// Product - инвестиционный продукт из каталога.
// Каталог считается статичным: продукты не изменяются после создания.
type Product struct {
	ID                 int64           `json:"id" db:"id"`
	Nome               string          `json:"nome" db:"nome"`
	Tipo               string          `json:"tipo" db:"tipo"` // "CDB", "LCI", "Fundo"
	RentabilidadeAnual decimal.Decimal `json:"rentabilidade_anual" db:"rentabilidade_anual"` // 0.12 = 12% годовых
	Risco              string          `json:"risco" db:"risco"`                             // Baixo, Moderado, Alto
	ValorMinimo        decimal.Decimal `json:"valor_minimo" db:"valor_minimo"`
	PrazoMinimoMeses   int             `json:"prazo_minimo_meses" db:"prazo_minimo_meses"`
}

// ProductDTO - представление продукта в ответах API (симуляция и рекомендации)
type ProductDTO struct {
	ID            int64           `json:"id"`
	Nome          string          `json:"nome"`
	Tipo          string          `json:"tipo"`
	Rentabilidade decimal.Decimal `json:"rentabilidade"`
	Risco         string          `json:"risco"`
}

// ToDTO преобразует продукт в DTO для ответа API
func (p *Product) ToDTO() ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Nome:          p.Nome,
		Tipo:          p.Tipo,
		Rentabilidade: p.RentabilidadeAnual,
		Risco:         p.Risco,
	}
}
