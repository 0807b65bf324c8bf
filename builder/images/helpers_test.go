package images

import (
	"bytes"
	"image"
	_ "image/png"
)

func decodeForTest(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
