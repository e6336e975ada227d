// odontofy-api/models/concept.go
package models

import "gorm.io/gorm"

// Concept представляет глобальный концепт (услугу) из общего каталога.
// Каталог доступен только для чтения: концепт, на который ссылается хотя бы
// одна строка платежа, удалять нельзя.
type Concept struct {
	gorm.Model
	Description string  `json:"description" gorm:"not null"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(10,2);not null"`
}

// UserConcept - персонализация концепта врачом: либо собственная услуга
// (ConceptID == nil, IsCustom == true), либо локальная копия глобального
// концепта с измененной ценой или описанием.
type UserConcept struct {
	gorm.Model
	UserID      uint    `json:"user_id" gorm:"not null;index"`
	ConceptID   *uint   `json:"concept_id"`
	Description string  `json:"description" gorm:"not null"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(10,2);not null"`
	IsCustom    bool    `json:"is_custom" gorm:"not null"`
}
