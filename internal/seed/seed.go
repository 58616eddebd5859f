// Package seed holds the starter curated dataset and loads it into a store.
package seed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"qrsafe/internal/domain"
	"qrsafe/internal/normalize"
	"qrsafe/internal/ports"
)

var VerifiedURLs = []string{
	"https://www.wikipedia.org/",
	"https://www.openai.com/",
	"https://www.khanacademy.org/",
	"https://www.python.org/",
	"https://www.github.com/",
	"https://www.stackoverflow.com/",
	"https://www.apple.com/",
	"https://www.google.com/",
	"https://www.microsoft.com/",
	"https://www.nytimes.com/",
}

var MaliciousURLs = []string{
	"http://login-microsoft.com.verify-credentials.ru/",
	"http://192.168.0.101/phish",
	"http://free-gift-now.click/claim",
	"http://update-bank.info/login",
	"http://evil.site/download/installer.exe",
	"http://verify-now.security-check.ga/",
}

var companyPattern = regexp.MustCompile(`https?://(?:www\.)?([^/]+)`)

// VerifiedEntries builds partner records verified on day.
func VerifiedEntries(day time.Time) []domain.VerifiedEntry {
	out := make([]domain.VerifiedEntry, 0, len(VerifiedURLs))
	for i, u := range VerifiedURLs {
		company := fmt.Sprintf("Verified Partner %d", i+1)
		if m := companyPattern.FindStringSubmatch(u); m != nil {
			company = m[1]
		}
		out = append(out, domain.VerifiedEntry{
			NormalizedURL:    normalize.Normalize(u),
			URL:              u,
			CompanyName:      company,
			VerificationDate: day,
			Category:         "Trusted Website",
			Notes:            fmt.Sprintf("From benign_qr_%d.png", i+1),
		})
	}
	return out
}

// MaliciousEntries builds threat records reported on day.
func MaliciousEntries(day time.Time) []domain.MaliciousEntry {
	out := make([]domain.MaliciousEntry, 0, len(MaliciousURLs))
	for i, u := range MaliciousURLs {
		details := fmt.Sprintf("Detected from fake_malicious_%d.png", i+1)
		reported := day
		out = append(out, domain.MaliciousEntry{
			NormalizedURL: normalize.Normalize(u),
			URL:           u,
			ThreatType:    ThreatType(u),
			ThreatDetails: &details,
			ReportedDate:  &reported,
			ReportSource:  "Internal QR analysis",
		})
	}
	return out
}

// ThreatType guesses a threat category from the URL text.
func ThreatType(u string) string {
	switch {
	case strings.Contains(u, "download") || strings.Contains(u, ".exe"):
		return "malware"
	case strings.Contains(u, "free") || strings.Contains(u, "gift") || strings.Contains(u, "claim"):
		return "scam"
	default:
		return "phishing"
	}
}

// Counts reports how many records Load wrote.
type Counts struct {
	Verified  int
	Malicious int
}

// Load upserts the dataset into w.
func Load(ctx context.Context, w ports.CuratedWriter, day time.Time) (Counts, error) {
	var c Counts
	for _, e := range VerifiedEntries(day) {
		if err := w.UpsertVerified(ctx, e); err != nil {
			return c, fmt.Errorf("seed verified %s: %w", e.URL, err)
		}
		c.Verified++
	}
	for _, e := range MaliciousEntries(day) {
		if err := w.UpsertMalicious(ctx, e); err != nil {
			return c, fmt.Errorf("seed malicious %s: %w", e.URL, err)
		}
		c.Malicious++
	}
	return c, nil
}
