package generation

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	wrapWidth        = 45
	maxCaptionLines  = 6
	maxCaptionSource = 150
)

var (
	borderOuter = color.RGBA{0xde, 0xe2, 0xe6, 0xff}
	borderInner = color.RGBA{0xe9, 0xec, 0xef, 0xff}
	textDark    = color.RGBA{0x49, 0x50, 0x57, 0xff}
	textMuted   = color.RGBA{0x6c, 0x75, 0x7d, 0xff}
	textFaint   = color.RGBA{0x86, 0x8e, 0x96, 0xff}
	featureBox  = color.RGBA{0xe9, 0xec, 0xef, 0xff}
	overlayFill = color.RGBA{0, 0, 0, 0x80}
)

// RenderPlaceholder draws the offline concept card for a room.
func RenderPlaceholder(roomType, description string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, ImageSize, ImageSize))

	for y := 0; y < ImageSize; y++ {
		v := uint8(248 - float64(y)*0.1)
		line := color.RGBA{v, v + 1, v + 2, 0xff}
		draw.Draw(img, image.Rect(0, y, ImageSize, y+1), image.NewUniform(line), image.Point{}, draw.Src)
	}

	strokeRect(img, image.Rect(20, 20, 492, 492), 3, borderOuter)
	strokeRect(img, image.Rect(30, 30, 482, 482), 1, borderInner)

	centerText(img, 80, roomTitle(roomType)+" Concept", textDark)
	centerText(img, 120, "AI-Enhanced Design Concept", textMuted)
	centerText(img, 145, "Inspirational Preview", textMuted)

	if description == "" {
		description = "AI-generated design concept"
	}
	y := 200
	for _, line := range wrapWords(truncate(description, maxCaptionSource)+"...", wrapWidth, maxCaptionLines) {
		centerText(img, y, line, textDark)
		y += 25
	}

	draw.Draw(img, image.Rect(60, 350, 452, 420), image.NewUniform(featureBox), image.Point{}, draw.Src)
	centerText(img, 365, "Enhanced with AI Analysis:", textDark)
	centerText(img, 385, "- Computer Vision Object Detection", textMuted)
	centerText(img, 400, "- Spatial Reasoning & Layout Optimization", textMuted)

	centerText(img, 450, Disclaimer, textFaint)

	return encodePNG(img)
}

// LabelImage stamps the disclaimer along the bottom edge of a PNG. Input that
// does not decode is returned unchanged.
func LabelImage(data []byte) []byte {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	b := src.Bounds()
	img := image.NewRGBA(b)
	draw.Draw(img, b, src, b.Min, draw.Src)

	face := basicfont.Face7x13
	width := font.MeasureString(face, Disclaimer).Ceil()
	height := face.Metrics().Height.Ceil()
	x := b.Min.X + (b.Dx()-width)/2
	y := b.Max.Y - height - 10

	bg := image.Rect(x-5, y-2, x+width+5, y+height+2)
	draw.Draw(img, bg, image.NewUniform(overlayFill), image.Point{}, draw.Over)
	drawText(img, x, y+face.Metrics().Ascent.Ceil(), Disclaimer, color.White)

	out, err := encodePNG(img)
	if err != nil {
		return data
	}
	return out
}

func centerText(img draw.Image, y int, text string, c color.Color) {
	width := font.MeasureString(basicfont.Face7x13, text).Ceil()
	drawText(img, (img.Bounds().Dx()-width)/2, y, text, c)
}

func drawText(img draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func strokeRect(img draw.Image, r image.Rectangle, width int, c color.Color) {
	u := image.NewUniform(c)
	for i := 0; i < width; i++ {
		in := r.Inset(i)
		draw.Draw(img, image.Rect(in.Min.X, in.Min.Y, in.Max.X, in.Min.Y+1), u, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(in.Min.X, in.Max.Y-1, in.Max.X, in.Max.Y), u, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(in.Min.X, in.Min.Y, in.Min.X+1, in.Max.Y), u, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(in.Max.X-1, in.Min.Y, in.Max.X, in.Max.Y), u, image.Point{}, draw.Src)
	}
}

// wrapWords breaks text into lines of at most width characters. A single word
// longer than width gets a line of its own.
func wrapWords(text string, width, maxLines int) []string {
	var lines []string
	var current []string
	for _, word := range strings.Fields(text) {
		current = append(current, word)
		line := strings.Join(current, " ")
		if len(line) <= width {
			continue
		}
		if len(current) > 1 {
			lines = append(lines, strings.Join(current[:len(current)-1], " "))
			current = []string{word}
		} else {
			lines = append(lines, line)
			current = nil
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}
