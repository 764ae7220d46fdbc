package access

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

const DefaultQRSize = 256

var ErrNoQRCode = errors.New("no QR code found in image")

// EncodePNG renders the payload as a QR code PNG.
func EncodePNG(p Payload, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	content, err := p.JSON()
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

// DecodeImage reads the text of the first QR code in a PNG or JPEG image.
func DecodeImage(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", err
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}
	result, err := zxingqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", ErrNoQRCode
	}
	return result.GetText(), nil
}

// DecodePNG is DecodeImage over a byte slice.
func DecodePNG(b []byte) (string, error) {
	return DecodeImage(bytes.NewReader(b))
}
