package engine

import (
	"image"
)

// Frame is a row-major RGB8 buffer, top row first. Pix has Width*Height*3 bytes.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

// set stores the averaged linear color of pixel (x, y).
func (f *Frame) set(x, y int, c Color) {
	idx := (y*f.Width + x) * 3
	f.Pix[idx] = toByte(c.X)
	f.Pix[idx+1] = toByte(c.Y)
	f.Pix[idx+2] = toByte(c.Z)
}

// At returns the bytes of pixel (x, y).
func (f *Frame) At(x, y int) (r, g, b uint8) {
	idx := (y*f.Width + x) * 3
	return f.Pix[idx], f.Pix[idx+1], f.Pix[idx+2]
}

// Image converts the frame to an opaque RGBA image for encoders.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i < len(f.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 255
	}
	return img
}
