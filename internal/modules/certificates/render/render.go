package render

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// Certificate is everything a rendered certificate shows. Rendering reads it only.
type Certificate struct {
	RecipientName  string
	CourseTitle    string
	CertificateID  string
	VerifyURL      string
	SiteName       string
	CompletionDate time.Time
	Grade          *decimal.Decimal
}

const (
	// Course titles longer than this are split across two lines.
	titleWrapRunes = 50

	primaryHex   = "#6366f1"
	secondaryHex = "#a855f7"
	goldHex      = "#f59e0b"
	textHex      = "#1e293b"
	mutedHex     = "#64748b"
)

// titleLines splits long titles at the word midpoint. Single-word titles stay on one line
// and are fitted by the renderer.
func titleLines(title string) []string {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) <= titleWrapRunes {
		return []string{title}
	}
	words := strings.Fields(title)
	if len(words) < 2 {
		return []string{title}
	}
	mid := len(words) / 2
	return []string{strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("January 02, 2006")
}

func qrPNG(url string, size int) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Medium, size)
}

func hexRGB(h string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(h, "#"), 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
