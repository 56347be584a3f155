package telegram

import (
	"fmt"

	"github.com/set-night/earnhub/internal/config"
	qrcode "github.com/skip2/go-qrcode"
)

// QRCodePNG renders content as a PNG QR code.
func QRCodePNG(content string) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("create qr code: %w", err)
	}
	png, err := qr.PNG(config.QRCodeSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
