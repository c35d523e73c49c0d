package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 400

// EncodePNG renders the attendance URL as a QR PNG.
func EncodePNG(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

// EncodeDataURL renders the attendance URL as a base64 PNG data URL, the form
// web clients embed directly in an <img> tag.
func EncodeDataURL(url string, size int) (string, error) {
	png, err := EncodePNG(url, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
