package domain

import (
	"encoding/json"
	"time"
)

// Core domain models shared by services and adapters. The JSON shape of the
// verdicts is what the transport layer returns, so field tags live here.

// NormalizedURL is the comparison key used for every curated lookup.
type NormalizedURL string

func (u NormalizedURL) String() string { return string(u) }

// CuratedSource names the dataset that produced a curated verdict.
type CuratedSource string

const (
	SourceThreatDB   CuratedSource = "QR Safe Threat Database"
	SourceVerifiedDB CuratedSource = "QR Safe Verified Database"
)

// IntelligenceSource labels every verdict from the web search path.
const IntelligenceSource = "Web Search Analysis"

type MaliciousEntry struct {
	NormalizedURL NormalizedURL
	URL           string
	ThreatType    string
	ThreatDetails *string
	ReportedDate  *time.Time
	ReportSource  string
}

type VerifiedEntry struct {
	NormalizedURL    NormalizedURL
	URL              string
	CompanyName      string
	VerificationDate time.Time
	Category         string
	Notes            string
}

// Date marshals as YYYY-MM-DD.
type Date time.Time

const dateLayout = "2006-01-02"

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

// CuratedVerdict is the result of matching a key against the curated store.
// Exactly one of IsMalicious, Verified or Unknown describes the outcome.
type CuratedVerdict struct {
	Verified         bool          `json:"verified"`
	Source           CuratedSource `json:"source"`
	Details          string        `json:"details"`
	IsMalicious      *bool         `json:"is_malicious,omitempty"`
	ThreatDetails    *string       `json:"threat_details,omitempty"`
	CompanyName      *string       `json:"company_name,omitempty"`
	VerificationDate *Date         `json:"verification_date,omitempty"`
	Unknown          *bool         `json:"unknown,omitempty"`
}

// Malicious reports whether the verdict came from a threat record.
func (v CuratedVerdict) Malicious() bool { return v.IsMalicious != nil && *v.IsMalicious }

// IsUnknown reports whether neither collection matched.
func (v CuratedVerdict) IsUnknown() bool { return v.Unknown != nil && *v.Unknown }

// Outcome is a short label used for metrics and logs.
func (v CuratedVerdict) Outcome() string {
	switch {
	case v.Malicious():
		return "malicious"
	case v.Verified:
		return "verified"
	default:
		return "unknown"
	}
}

// Findings is the unstructured text returned by the web search stage.
type Findings string

// SafetyVerdict is the advisory verdict of the intelligence path. Safe is nil
// when the assessment is uncertain or could not be produced.
type SafetyVerdict struct {
	Safe        *bool   `json:"safe"`
	Source      string  `json:"source"`
	Details     string  `json:"details"`
	RawFindings *string `json:"raw_results,omitempty"`
	Error       *string `json:"error,omitempty"`
}

// Degraded reports whether the verdict is a soft failure.
func (v SafetyVerdict) Degraded() bool { return v.Error != nil }

// Rating is a short label used for metrics and logs.
func (v SafetyVerdict) Rating() string {
	switch {
	case v.Degraded():
		return "error"
	case v.Safe == nil:
		return "uncertain"
	case *v.Safe:
		return "safe"
	default:
		return "unsafe"
	}
}

// Target describes the URL a combined check was run for.
type Target struct {
	URL               string        `json:"url"`
	NormalizedURL     NormalizedURL `json:"normalized_url"`
	RegistrableDomain string        `json:"registrable_domain,omitempty"`
}

// CombinedResult joins both verdicts. Neither half is derived from the other.
type CombinedResult struct {
	Target       Target         `json:"target"`
	Curated      CuratedVerdict `json:"db_check"`
	Intelligence SafetyVerdict  `json:"web_check"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
