package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ExportService produces downloadable exports of a user's account data
type ExportService interface {
	ExportOrderHistory(userID uint) ([]byte, string, error)
}

type exportService struct {
	orderRepo repository.OrderRepository
}

func NewExportService(orderRepo repository.OrderRepository) ExportService {
	return &exportService{orderRepo: orderRepo}
}

// ExportOrderHistory builds an XLSX workbook with one summary sheet and one
// line-item sheet covering all of the user's orders. Returns the file bytes
// and a suggested filename.
func (s *exportService) ExportOrderHistory(userID uint) ([]byte, string, error) {
	logger.Info("Exporting order history", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const ordersSheet = "Orders"
	const itemsSheet = "Order Items"

	f.SetSheetName(f.GetSheetName(0), ordersSheet)
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, "", err
	}

	orderHeaders := []string{"Order ID", "Date", "Status", "Payment Method", "Items", "Total (JPY)"}
	for i, h := range orderHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ordersSheet, cell, h)
	}

	itemHeaders := []string{"Order ID", "Drink ID", "Drink", "Quantity", "Unit Price (JPY)", "Subtotal (JPY)"}
	for i, h := range itemHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(itemsSheet, cell, h)
	}

	itemRow := 2
	for i, order := range orders {
		row := i + 2
		f.SetCellValue(ordersSheet, fmt.Sprintf("A%d", row), order.ID)
		f.SetCellValue(ordersSheet, fmt.Sprintf("B%d", row), order.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(ordersSheet, fmt.Sprintf("C%d", row), string(order.Status))
		f.SetCellValue(ordersSheet, fmt.Sprintf("D%d", row), string(order.PaymentMethod))
		f.SetCellValue(ordersSheet, fmt.Sprintf("E%d", row), len(order.Items))
		f.SetCellValue(ordersSheet, fmt.Sprintf("F%d", row), order.TotalAmount)

		for _, item := range order.Items {
			drinkLabel := describeDrink(item.Drink)
			f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", itemRow), order.ID)
			f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", itemRow), item.DrinkID)
			f.SetCellValue(itemsSheet, fmt.Sprintf("C%d", itemRow), drinkLabel)
			f.SetCellValue(itemsSheet, fmt.Sprintf("D%d", itemRow), item.Quantity)
			f.SetCellValue(itemsSheet, fmt.Sprintf("E%d", itemRow), item.Price)
			f.SetCellValue(itemsSheet, fmt.Sprintf("F%d", itemRow), item.Price*float64(item.Quantity))
			itemRow++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to write export workbook", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, "", err
	}

	filename := fmt.Sprintf("order-history-%d-%s.xlsx", userID, time.Now().Format("20060102"))

	logger.Info("Order history exported", map[string]interface{}{
		"user_id":     userID,
		"order_count": len(orders),
		"size_bytes":  buf.Len(),
	})
	return buf.Bytes(), filename, nil
}

func describeDrink(drink *model.Drink) string {
	if drink == nil {
		return ""
	}
	if drink.Description != "" {
		return drink.Description
	}
	return drink.UniqueID
}
