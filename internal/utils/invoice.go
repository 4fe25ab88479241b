package utils

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const invoiceAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// GenerateInvoiceNumber returns e.g. "INV-20260101-150405-7KQ2". The
// random suffix falls back to the clock when the generator fails.
func GenerateInvoiceNumber(now time.Time) string {
	now = now.UTC()
	suffix, err := gonanoid.Generate(invoiceAlphabet, 4)
	if err != nil {
		suffix = fmt.Sprintf("%04d", now.UnixNano()%10000)
	}
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102-150405"), suffix)
}
