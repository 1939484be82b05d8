package utils

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

// GeneratePaymentQR encode l'URL de la page de paiement en QR base64 prêt
// à mettre dans <img src="data:image/png;base64,...."> — permet de finir
// le paiement sur un autre appareil
func GeneratePaymentQR(paymentURL string) (string, error) {
	png, err := qrcode.Encode(paymentURL, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
