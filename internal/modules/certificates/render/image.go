package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	cardW = 1200
	cardH = 630
)

var (
	fontsOnce sync.Once
	fontsErr  error
	regular   *truetype.Font
	bold      *truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		bold, fontsErr = truetype.Parse(gobold.TTF)
	})
	return fontsErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

// Image renders a 1200x630 PNG share card.
func Image(c Certificate) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	dc := gg.NewContext(cardW, cardH)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetHexColor(primaryHex)
	dc.SetLineWidth(12)
	dc.DrawRectangle(18, 18, cardW-36, cardH-36)
	dc.Stroke()
	dc.SetHexColor(secondaryHex)
	dc.SetLineWidth(3)
	dc.DrawRectangle(40, 40, cardW-80, cardH-80)
	dc.Stroke()

	cx := float64(cardW) / 2

	dc.SetFontFace(face(bold, 56))
	dc.SetHexColor(primaryHex)
	dc.DrawStringAnchored("CERTIFICATE OF COMPLETION", cx, 120, 0.5, 0.5)

	dc.SetHexColor(goldHex)
	dc.SetLineWidth(3)
	dc.DrawLine(cx-160, 160, cx+160, 160)
	dc.Stroke()

	dc.SetFontFace(face(regular, 26))
	dc.SetHexColor(mutedHex)
	dc.DrawStringAnchored("This certifies that", cx, 205, 0.5, 0.5)

	fitFace(dc, bold, c.RecipientName, 52, 20, cardW-200)
	dc.SetHexColor(textHex)
	dc.DrawStringAnchored(clip(dc, c.RecipientName, cardW-200), cx, 265, 0.5, 0.5)

	dc.SetFontFace(face(regular, 26))
	dc.SetHexColor(mutedHex)
	dc.DrawStringAnchored("has successfully completed the course", cx, 325, 0.5, 0.5)

	y := 380.0
	for _, line := range titleLines(c.CourseTitle) {
		fitFace(dc, bold, line, 38, 16, cardW-200)
		dc.SetHexColor(primaryHex)
		dc.DrawStringAnchored(clip(dc, line, cardW-200), cx, y, 0.5, 0.5)
		y += 46
	}

	dc.SetFontFace(face(regular, 22))
	dc.SetHexColor(textHex)
	dc.DrawStringAnchored("Date: "+formatDate(c.CompletionDate), 80, cardH-80, 0, 0.5)
	dc.DrawStringAnchored("Certificate ID: "+c.CertificateID, cardW-80, cardH-80, 1, 0.5)

	if c.VerifyURL != "" {
		raw, err := qrPNG(c.VerifyURL, 256)
		if err != nil {
			return nil, fmt.Errorf("qr code: %w", err)
		}
		qr, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode qr: %w", err)
		}
		dst := image.NewRGBA(image.Rect(0, 0, 120, 120))
		draw.CatmullRom.Scale(dst, dst.Bounds(), qr, qr.Bounds(), draw.Over, nil)
		dc.DrawImage(dst, cardW-190, 60)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func fitFace(dc *gg.Context, f *truetype.Font, text string, size, minSize, width float64) {
	for ; size > minSize; size -= 2 {
		dc.SetFontFace(face(f, size))
		if w, _ := dc.MeasureString(text); w <= width {
			return
		}
	}
	dc.SetFontFace(face(f, minSize))
}

func clip(dc *gg.Context, text string, width float64) string {
	if w, _ := dc.MeasureString(text); w <= width {
		return text
	}
	r := []rune(text)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if w, _ := dc.MeasureString(string(r) + "..."); w <= width {
			break
		}
	}
	return string(r) + "..."
}
