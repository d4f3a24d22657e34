package ai

import (
	"context"
	"strings"

	"soravault/internal/models"
)

// WarrantyInfo is what could be read off a warranty card or receipt. Fields
// the model could not read are left empty.
type WarrantyInfo struct {
	Brand          string       `json:"brand,omitempty"`
	Model          string       `json:"model,omitempty"`
	Reference      string       `json:"reference,omitempty"`
	SerialNumber   string       `json:"serial_number,omitempty"`
	PurchaseDate   *models.Date `json:"purchase_date,omitempty"`
	Retailer       string       `json:"retailer,omitempty"`
	WarrantyExpiry *models.Date `json:"warranty_expiry,omitempty"`
}

const warrantyPrompt = `Read this warranty card or purchase receipt. Reply with a JSON object with the keys
brand, model, reference, serial_number, purchase_date, retailer, warranty_expiry.
Dates use YYYY-MM-DD. Use null for anything you cannot read.`

func (c *Client) WarrantyOCR(ctx context.Context, image []byte, mimeType string) (WarrantyInfo, error) {
	res, err := c.VisionJSON(ctx, "warranty_ocr", warrantyPrompt, image, mimeType)
	if err != nil {
		return WarrantyInfo{}, err
	}

	info := WarrantyInfo{
		Brand:        strings.TrimSpace(res.Get("brand").String()),
		Model:        strings.TrimSpace(res.Get("model").String()),
		Reference:    strings.TrimSpace(res.Get("reference").String()),
		SerialNumber: strings.TrimSpace(res.Get("serial_number").String()),
		Retailer:     strings.TrimSpace(res.Get("retailer").String()),
	}
	if d, err := models.ParseDate(res.Get("purchase_date").String()); err == nil {
		info.PurchaseDate = &d
	}
	if d, err := models.ParseDate(res.Get("warranty_expiry").String()); err == nil {
		info.WarrantyExpiry = &d
	}
	return info, nil
}
