package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

// modules encodes content at error-correction level M and returns the module
// grid without any quiet zone. Callers add their own margin.
func modules(content string) ([][]bool, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true
	return code.Bitmap(), nil
}
