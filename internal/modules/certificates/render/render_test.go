package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font/gofont/gobold"
)

func sample() Certificate {
	g := decimal.RequireFromString("92.5")
	return Certificate{
		RecipientName:  "Ada Lovelace",
		CourseTitle:    "Introduction to Distributed Systems",
		CertificateID:  "CERT-0123456789AB",
		VerifyURL:      "https://academy.example.com/certificates/verify/CERT-0123456789AB",
		SiteName:       "Academy",
		CompletionDate: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Grade:          &g,
	}
}

func TestPDF_WellFormedAndDeterministic(t *testing.T) {
	a, err := PDF(sample())
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(a, []byte("%PDF-")) {
		t.Fatalf("missing PDF header")
	}
	if !bytes.Contains(a[len(a)-16:], []byte("%%EOF")) {
		t.Fatalf("missing PDF trailer")
	}

	b, err := PDF(sample())
	if err != nil {
		t.Fatalf("PDF (again): %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical output for identical input")
	}
}

func TestPDF_PathologicalTitles(t *testing.T) {
	for name, title := range map[string]string{
		"long words":  strings.Repeat("Advanced Topics in Concurrency ", 40),
		"single word": strings.Repeat("x", 2000),
		"unicode":     "Введение в программирование ☃ édition spéciale pour les développeurs",
		"empty":       "",
	} {
		c := sample()
		c.CourseTitle = title
		c.RecipientName = strings.Repeat("Name ", 60)
		out, err := PDF(c)
		if err != nil {
			t.Fatalf("%s: PDF: %v", name, err)
		}
		if !bytes.HasPrefix(out, []byte("%PDF-")) || !bytes.Contains(out, []byte("%%EOF")) {
			t.Fatalf("%s: malformed document", name)
		}
	}
}

func TestPDF_EmbedsUnicodeFont(t *testing.T) {
	c := sample()
	c.RecipientName = "Анна Ковалёва"
	c.CourseTitle = "Введение в программирование"
	out, err := PDF(c)
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.Contains(out, []byte("/FontFile2")) {
		t.Fatalf("expected an embedded TrueType font")
	}
}

func TestFitText_CutsWholeRunes(t *testing.T) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(family, "B", gobold.TTF)
	text, size := fitText(pdf, strings.Repeat("Ёж", 400), "B", 20, 9, 100)
	if size != 9 {
		t.Fatalf("expected the minimum size, got %v", size)
	}
	if !utf8.ValidString(text) || !strings.HasSuffix(text, "...") {
		t.Fatalf("cut text is not valid UTF-8 with an ellipsis: %q", text)
	}
}

func TestPDF_WithoutOptionalParts(t *testing.T) {
	c := sample()
	c.Grade = nil
	c.VerifyURL = ""
	c.SiteName = ""
	if _, err := PDF(c); err != nil {
		t.Fatalf("PDF: %v", err)
	}
}

func TestTitleLines_SplitsAtWordMidpoint(t *testing.T) {
	short := "Go in Practice"
	if got := titleLines(short); len(got) != 1 {
		t.Fatalf("expected a single line for %q, got %v", short, got)
	}
	long := "One Two Three Four Five Six Seven Eight Nine Ten Eleven Twelve"
	got := titleLines(long)
	if len(got) != 2 || got[0] != "One Two Three Four Five Six" || got[1] != "Seven Eight Nine Ten Eleven Twelve" {
		t.Fatalf("unexpected split: %q", got)
	}
}

func TestImage_DecodesAsShareCard(t *testing.T) {
	raw, err := Image(sample())
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1200 || b.Dy() != 630 {
		t.Fatalf("expected 1200x630, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestHexRGB(t *testing.T) {
	r, g, b := hexRGB("#6366f1")
	if r != 0x63 || g != 0x66 || b != 0xf1 {
		t.Fatalf("unexpected rgb: %d %d %d", r, g, b)
	}
}
