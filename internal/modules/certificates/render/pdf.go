package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	pageW = 297.0
	pageH = 210.0

	// embedded Go fonts, UTF-8 encoded, so Latin, Greek and Cyrillic names render as typed.
	family = "go"
)

// fixed document dates keep the output byte-identical for identical input.
var docEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// PDF renders a landscape A4 completion certificate.
func PDF(c Certificate) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(docEpoch)
	pdf.SetModificationDate(docEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Certificate of Completion", true)
	pdf.SetCreator(c.SiteName, true)
	pdf.AddUTF8FontFromBytes(family, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(family, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(family, "I", goitalic.TTF)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	pdf.AddPage()

	// double border
	pdf.SetDrawColor(hexRGB(primaryHex))
	pdf.SetLineWidth(2.5)
	pdf.Rect(10, 10, pageW-20, pageH-20, "D")
	pdf.SetDrawColor(hexRGB(secondaryHex))
	pdf.SetLineWidth(0.8)
	pdf.Rect(15, 15, pageW-30, pageH-30, "D")

	centered := func(y float64, style string, size float64, hex, text string) {
		pdf.SetFont(family, style, size)
		pdf.SetTextColor(hexRGB(hex))
		pdf.SetXY(20, y)
		pdf.CellFormat(pageW-40, size*0.45, text, "", 0, "C", false, 0, "")
	}

	centered(30, "B", 36, primaryHex, "CERTIFICATE")
	centered(47, "", 16, secondaryHex, "OF COMPLETION")

	pdf.SetDrawColor(hexRGB(goldHex))
	pdf.SetLineWidth(0.6)
	pdf.Line(pageW/2-50, 58, pageW/2+50, 58)

	centered(66, "", 13, mutedHex, "This certifies that")

	name, nameSize := fitText(pdf, c.RecipientName, "B", 30, 12, pageW-60)
	pdf.SetFont(family, "B", nameSize)
	pdf.SetTextColor(hexRGB(textHex))
	pdf.SetXY(20, 78)
	pdf.CellFormat(pageW-40, 14, name, "", 0, "C", false, 0, "")

	centered(98, "", 13, mutedHex, "has successfully completed the course")

	y := 110.0
	for _, line := range titleLines(c.CourseTitle) {
		text, size := fitText(pdf, line, "B", 20, 9, pageW-60)
		pdf.SetFont(family, "B", size)
		pdf.SetTextColor(hexRGB(primaryHex))
		pdf.SetXY(20, y)
		pdf.CellFormat(pageW-40, 10, text, "", 0, "C", false, 0, "")
		y += 11
	}

	if c.Grade != nil {
		centered(y+3, "", 12, textHex, fmt.Sprintf("Grade: %s%%", c.Grade.StringFixed(1)))
	}

	// footer row: date left, id right
	pdf.SetFont(family, "", 11)
	pdf.SetTextColor(hexRGB(textHex))
	pdf.SetXY(25, pageH-40)
	pdf.CellFormat(90, 6, "Date: "+formatDate(c.CompletionDate), "", 0, "L", false, 0, "")
	pdf.SetXY(pageW-115, pageH-40)
	pdf.CellFormat(90, 6, "Certificate ID: "+c.CertificateID, "", 0, "R", false, 0, "")

	// signature
	pdf.SetDrawColor(hexRGB(textHex))
	pdf.SetLineWidth(0.3)
	pdf.Line(pageW/2-35, pageH-42, pageW/2+35, pageH-42)
	pdf.SetFont(family, "I", 10)
	pdf.SetXY(pageW/2-35, pageH-40)
	pdf.CellFormat(70, 5, "Authorized Signature", "", 0, "C", false, 0, "")

	if c.VerifyURL != "" {
		png, err := qrPNG(c.VerifyURL, 256)
		if err != nil {
			return nil, fmt.Errorf("qr code: %w", err)
		}
		opt := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("verify-qr", opt, bytes.NewReader(png))
		pdf.ImageOptions("verify-qr", pageW-55, 25, 28, 28, false, opt, 0, "")
		pdf.SetFont(family, "", 8)
		pdf.SetTextColor(hexRGB(mutedHex))
		pdf.SetXY(pageW-55, 54)
		pdf.CellFormat(28, 4, "Scan to verify", "", 0, "C", false, 0, "")
	}

	if c.SiteName != "" {
		centered(pageH-24, "", 9, mutedHex, c.SiteName)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fitText shrinks the font until text fits width, then cuts runes and adds an ellipsis.
func fitText(pdf *fpdf.Fpdf, text, style string, size, minSize, width float64) (string, float64) {
	for ; size > minSize; size-- {
		pdf.SetFont(family, style, size)
		if pdf.GetStringWidth(text) <= width {
			return text, size
		}
	}
	size = minSize
	pdf.SetFont(family, style, size)
	if pdf.GetStringWidth(text) <= width {
		return text, size
	}
	cut := []rune(text)
	for len(cut) > 0 && pdf.GetStringWidth(string(cut)+"...") > width {
		cut = cut[:len(cut)-1]
	}
	return string(cut) + "...", size
}
