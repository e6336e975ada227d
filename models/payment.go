// odontofy-api/models/payment.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Допустимые способы оплаты строки платежа. Любое другое значение
// отклоняется на границе HTTP и до БД не доходит.
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodDebit        = "DEBIT"
	PaymentMethodCredit       = "CREDIT"
	PaymentMethodTransference = "TRANSFERENCE"
)

// Payment - заголовок одного платежного события.
// Поля Income/Debt/Total заполняются клиентом и системой не пересчитываются:
// сверка итогов заголовка с суммой строк предметно не определена
// (итог может включать корректировки вне строк) и ждет решения продукта.
type Payment struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	PatientID   uint      `json:"patient_id" gorm:"not null;index"`
	PaymentDate time.Time `json:"payment_date" gorm:"not null"`
	Income      float64   `json:"income" gorm:"type:numeric(10,2);not null"`
	Debt        float64   `json:"debt" gorm:"type:numeric(10,2);not null"`
	Total       float64   `json:"total" gorm:"type:numeric(10,2);not null"`
}

// PaymentConcept - одна строка платежа: концепт, количество и способ оплаты.
// Строка никогда не переживает свой платеж: каскадное удаление выполняет
// обработчик, а не БД. Ссылочную целостность ConceptID обеспечивает внешний ключ.
type PaymentConcept struct {
	gorm.Model
	PaymentID     uint    `json:"payment_id" gorm:"not null;index"`
	ConceptID     uint    `json:"concept_id" gorm:"not null"`
	Concept       Concept `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Quantity      int     `json:"quantity" gorm:"not null"`
	PaymentMethod string  `json:"payment_method" gorm:"not null"`
}
