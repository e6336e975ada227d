// odontofy-api/internal/handlers/payment_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// PaymentConceptInput - одна желаемая строка платежа от клиента.
// Строка с ID трактуется как "обновить существующую", без ID - как новая.
type PaymentConceptInput struct {
	ID            uint   `json:"id"`
	ConceptID     uint   `json:"conceptId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=CASH DEBIT CREDIT TRANSFERENCE"`
}

// PaymentInput - желаемое итоговое состояние платежа: шапка целиком плюс
// полный список строк. Частичного обновления шапки нет, все поля перезаписываются.
type PaymentInput struct {
	PaymentDate string                `json:"payment_date" binding:"required"`
	Income      float64               `json:"income"`
	Debt        float64               `json:"debt"`
	Total       float64               `json:"total"`
	Concepts    []PaymentConceptInput `json:"concepts" binding:"dive"`
}

// PaymentConceptResponse - строка платежа в ответах API.
type PaymentConceptResponse struct {
	ID            uint   `json:"id"`
	ConceptID     uint   `json:"conceptId"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"paymentMethod"`
}

// PaymentResponse - платеж вместе со строками.
type PaymentResponse struct {
	ID              uint                     `json:"id"`
	UserID          uint                     `json:"user_id"`
	PatientID       uint                     `json:"patientId"`
	PaymentDate     time.Time                `json:"payment_date"`
	Income          float64                  `json:"income"`
	Debt            float64                  `json:"debt"`
	Total           float64                  `json:"total"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
	PaymentConcepts []PaymentConceptResponse `json:"paymentConcepts"`
}

// BalanceResponse - суммарные показатели по платежам врача.
type BalanceResponse struct {
	TotalPayments float64 `json:"totalPayments"`
	TotalDebt     float64 `json:"totalDebt"`
	TotalIncome   float64 `json:"totalIncome"`
}

func buildPaymentResponse(db *gorm.DB, payment models.Payment) (PaymentResponse, error) {
	var concepts []models.PaymentConcept
	if err := db.Where("payment_id = ?", payment.ID).Order("id asc").Find(&concepts).Error; err != nil {
		return PaymentResponse{}, err
	}

	resp := PaymentResponse{
		ID:              payment.ID,
		UserID:          payment.UserID,
		PatientID:       payment.PatientID,
		PaymentDate:     payment.PaymentDate,
		Income:          payment.Income,
		Debt:            payment.Debt,
		Total:           payment.Total,
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
		PaymentConcepts: make([]PaymentConceptResponse, 0, len(concepts)),
	}
	for _, pc := range concepts {
		resp.PaymentConcepts = append(resp.PaymentConcepts, PaymentConceptResponse{
			ID:            pc.ID,
			ConceptID:     pc.ConceptID,
			Quantity:      pc.Quantity,
			PaymentMethod: pc.PaymentMethod,
		})
	}
	return resp, nil
}

// isForeignKeyViolation распознает нарушение внешнего ключа (битый conceptId)
// независимо от того, перевел ли драйвер ошибку в gorm.ErrForeignKeyViolated.
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToUpper(err.Error()), "FOREIGN KEY")
}

// ListPaymentsHandler возвращает платежи пациента вместе со строками.
func ListPaymentsHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")
	patientID := c.Param("id")

	var payments []models.Payment
	if err := config.DB.Where("user_id = ? AND patient_id = ?", userID, patientID).
		Order("payment_date desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		resp, err := buildPaymentResponse(config.DB, payment)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment concepts"})
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, responses)
}

// GetPaymentHandler возвращает один платеж по ID.
func GetPaymentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id := c.Param("paymentId")

	var payment models.Payment
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	resp, err := buildPaymentResponse(config.DB, payment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment concepts"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreatePaymentHandler создает платеж вместе со строками одной транзакцией:
// шапка никогда не остается без строк, если вставка любой из них не удалась.
func CreatePaymentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")
	patientID := c.Param("id")

	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	paymentDate, err := time.Parse("2006-01-02", input.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Ожидается YYYY-MM-DD."})
		return
	}

	var patient models.Patient
	if err := config.DB.Where("id = ? AND user_id = ?", patientID, userID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	payment := models.Payment{
		UserID:      userID.(uint),
		PatientID:   patient.ID,
		PaymentDate: paymentDate,
		Income:      input.Income,
		Debt:        input.Debt,
		Total:       input.Total,
	}

	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if len(input.Concepts) == 0 {
			return nil
		}

		concepts := make([]models.PaymentConcept, 0, len(input.Concepts))
		for _, in := range input.Concepts {
			concepts = append(concepts, models.PaymentConcept{
				PaymentID:     payment.ID,
				ConceptID:     in.ConceptID,
				Quantity:      in.Quantity,
				PaymentMethod: in.PaymentMethod,
			})
		}
		return tx.Create(&concepts).Error
	})

	if txErr != nil {
		if isForeignKeyViolation(txErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "Invalid concept reference"})
			return
		}
		slog.Error("Не удалось создать платеж", "error", txErr, "patient_id", patientID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	resp, err := buildPaymentResponse(config.DB, payment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment concepts"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "El pago se ha generado satisfactoriamente",
		"payment": resp,
	})
}

// UpdatePaymentHandler приводит сохраненный платеж к желаемому состоянию из запроса.
// Вся сверка выполняется в одной транзакции: шапка перезаписывается, затем
// строки сводятся к желаемому списку по схеме map-and-sweep - совпавшие по ID
// обновляются, не упомянутые удаляются, строки без ID создаются заново.
// Любая ошибка откатывает транзакцию целиком, частичных записей не бывает.
func UpdatePaymentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id := c.Param("paymentId")

	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	paymentDate, err := time.Parse("2006-01-02", input.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Ожидается YYYY-MM-DD."})
		return
	}

	var payment models.Payment
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&payment).Error; err != nil {
			return err
		}

		payment.PaymentDate = paymentDate
		payment.Income = input.Income
		payment.Debt = input.Debt
		payment.Total = input.Total
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		var current []models.PaymentConcept
		if err := tx.Where("payment_id = ?", payment.ID).Find(&current).Error; err != nil {
			return err
		}

		existing := make(map[uint]models.PaymentConcept, len(current))
		for _, pc := range current {
			existing[pc.ID] = pc
		}

		for _, in := range input.Concepts {
			if pc, ok := existing[in.ID]; ok && in.ID != 0 {
				pc.ConceptID = in.ConceptID
				pc.Quantity = in.Quantity
				pc.PaymentMethod = in.PaymentMethod
				if err := tx.Save(&pc).Error; err != nil {
					return err
				}
				// ID больше не считается кандидатом на удаление.
				delete(existing, in.ID)
				continue
			}

			pc := models.PaymentConcept{
				PaymentID:     payment.ID,
				ConceptID:     in.ConceptID,
				Quantity:      in.Quantity,
				PaymentMethod: in.PaymentMethod,
			}
			if err := tx.Create(&pc).Error; err != nil {
				return err
			}
		}

		// Оставшиеся в map строки были в БД, но отсутствуют в желаемом списке.
		for conceptRowID := range existing {
			if err := tx.Delete(&models.PaymentConcept{}, conceptRowID).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		if isForeignKeyViolation(txErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "Invalid concept reference"})
			return
		}
		slog.Error("Не удалось обновить платеж", "error", txErr, "payment_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	resp, err := buildPaymentResponse(config.DB, payment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment concepts"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeletePaymentHandler удаляет платеж вместе со всеми его строками.
// Сначала по ссылочной целостности удаляются строки, затем сам платеж,
// одной транзакцией - частичное удаление снаружи не наблюдаемо.
func DeletePaymentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id := c.Param("paymentId")

	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&payment).Error; err != nil {
			return err
		}

		if err := tx.Where("payment_id = ?", payment.ID).Delete(&models.PaymentConcept{}).Error; err != nil {
			return err
		}

		return tx.Delete(&payment).Error
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		slog.Error("Не удалось удалить платеж", "error", txErr, "payment_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "El pago y sus conceptos asociados han sido eliminados correctamente"})
}

// GetBalanceHandler возвращает суммы total/debt/income по платежам врача.
// С флагом current_month=true выборка ограничивается текущим календарным месяцем.
// Отсутствие платежей - это нулевые суммы, а не ошибка.
func GetBalanceHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	query := config.DB.Model(&models.Payment{}).Where("user_id = ?", userID)

	if c.Query("current_month") == "true" {
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		nextMonth := monthStart.AddDate(0, 1, 0)
		query = query.Where("payment_date >= ? AND payment_date < ?", monthStart, nextMonth)
	}

	var balance BalanceResponse
	if err := query.Select(`
		COALESCE(SUM(total), 0) as total_payments,
		COALESCE(SUM(debt), 0) as total_debt,
		COALESCE(SUM(income), 0) as total_income
	`).Scan(&balance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	c.JSON(http.StatusOK, balance)
}

// ExportPaymentsHandler выгружает журнал платежей врача в Excel.
func ExportPaymentsHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	type paymentRow struct {
		models.Payment
		PatientFullName string
	}

	var rows []paymentRow
	err := config.DB.Table("payments p").
		Select(`p.*, (pt.last_name || ' ' || pt.name) as patient_full_name`).
		Joins("LEFT JOIN patients pt ON p.patient_id = pt.id").
		Where("p.user_id = ? AND p.deleted_at IS NULL", userID).
		Order("p.payment_date DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data for export"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Pagos"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Paciente", "Fecha de pago", "Ingreso", "Deuda", "Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, p := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.PatientFullName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.PaymentDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.Income)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.Debt)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), p.Total)
	}

	fileName := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
